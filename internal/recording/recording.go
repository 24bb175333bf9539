// Package recording stores Codec2 recordings: PCM is encoded into a .c2
// stream, uploaded to blob storage, and cataloged in the recording repository.
package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/glizzus/c2rec/internal/datalayer"
	"github.com/glizzus/c2rec/internal/generator"
	"github.com/glizzus/c2rec/internal/repository"
)

// ContentType is the media type used for stored .c2 objects.
const ContentType = "audio/x-codec2"

// ObjectKey is the blob key of a recording.
func ObjectKey(id string) string {
	return "recordings/" + id + ".c2"
}

type Service struct {
	engine codec2.Engine
	blobs  datalayer.BlobStorage
	repo   repository.RecordingRepository
	ids    generator.Generator[string]
	logger *slog.Logger
}

func NewService(
	engine codec2.Engine,
	blobs datalayer.BlobStorage,
	repo repository.RecordingRepository,
	ids generator.Generator[string],
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine: engine,
		blobs:  blobs,
		repo:   repo,
		ids:    ids,
		logger: logger,
	}
}

type StoreOptions struct {
	Name     string
	Mode     codec2.Mode
	SideInfo bool
}

// Store encodes raw 8kHz PCM from r and persists the resulting .c2 stream.
func (s *Service) Store(ctx context.Context, r io.Reader, opts StoreOptions) (repository.Recording, error) {
	id, err := s.ids.Next()
	if err != nil {
		return repository.Recording{}, fmt.Errorf("failed to generate recording id: %w", err)
	}

	codec, err := codec2.New(s.engine, opts.Mode)
	if err != nil {
		return repository.Recording{}, err
	}
	defer s.closeCodec(codec)

	var stream bytes.Buffer
	frames, err := codec2.EncodeStream(ctx, codec, &stream, r, opts.SideInfo)
	if err != nil {
		return repository.Recording{}, fmt.Errorf("failed to encode recording: %w", err)
	}

	key := ObjectKey(id)
	size := int64(stream.Len())
	if err := s.blobs.Put(ctx, key, &stream, datalayer.PutOptions{Size: size, ContentType: ContentType}); err != nil {
		return repository.Recording{}, fmt.Errorf("failed to upload recording: %w", err)
	}

	rec := repository.Recording{
		ID:        id,
		Name:      opts.Name,
		Mode:      opts.Mode,
		SideInfo:  opts.SideInfo,
		Frames:    frames,
		SizeBytes: size,
		ObjectKey: key,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "uploaded recording was not cataloged",
			slog.String("objectKey", key),
			slog.Any("error", err),
		)
		return repository.Recording{}, err
	}

	s.logger.InfoContext(ctx, "stored recording",
		slog.String("recordingID", id),
		slog.String("mode", opts.Mode.String()),
		slog.Int64("frames", frames),
		slog.Int64("bytes", size),
	)
	return s.repo.Get(ctx, id)
}

// Open returns the raw .c2 stream of a recording.
func (s *Service) Open(ctx context.Context, id string) (repository.Recording, io.ReadCloser, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return repository.Recording{}, nil, err
	}
	rc, err := s.blobs.Get(ctx, rec.ObjectKey)
	if err != nil {
		return repository.Recording{}, nil, fmt.Errorf("failed to download recording %s: %w", id, err)
	}
	return rec, rc, nil
}

// Fetch decodes a stored recording into raw PCM on w. The codec mode comes
// from the stream header, which must agree with the catalog.
func (s *Service) Fetch(ctx context.Context, id string, w io.Writer) (repository.Recording, error) {
	rec, rc, err := s.Open(ctx, id)
	if err != nil {
		return repository.Recording{}, err
	}
	defer rc.Close()

	stream, err := codec2.NewStreamReader(rc)
	if err != nil {
		return repository.Recording{}, fmt.Errorf("recording %s: %w", id, err)
	}
	if mode := stream.Header().Mode; mode != rec.Mode {
		return repository.Recording{}, fmt.Errorf("recording %s: stream mode %s, catalog mode %s", id, mode, rec.Mode)
	}

	codec, err := codec2.New(s.engine, stream.Header().Mode)
	if err != nil {
		return repository.Recording{}, err
	}
	defer s.closeCodec(codec)

	frames, err := codec2.DecodeStream(ctx, codec, w, stream)
	if err != nil {
		return repository.Recording{}, fmt.Errorf("failed to decode recording %s: %w", id, err)
	}
	if frames != rec.Frames {
		s.logger.WarnContext(ctx, "decoded frame count differs from catalog",
			slog.String("recordingID", id),
			slog.Int64("decoded", frames),
			slog.Int64("cataloged", rec.Frames),
		)
	}
	return rec, nil
}

// List returns at most limit recordings, newest first. A negative limit
// fails with repository.ErrNegativeLimit.
func (s *Service) List(ctx context.Context, limit int) ([]repository.Recording, error) {
	if limit < 0 {
		return nil, repository.ErrNegativeLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) closeCodec(c *codec2.Codec) {
	if err := c.Close(); err != nil {
		s.logger.Error("failed to close codec", slog.Any("error", err))
	}
}
