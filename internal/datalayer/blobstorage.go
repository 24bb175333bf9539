package datalayer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/glizzus/c2rec/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrBlobNotFound is returned by Get for a key that does not exist.
var ErrBlobNotFound = errors.New("blob not found")

type PutOptions struct {
	Size        int64
	ContentType string
}

type BlobStorage interface {
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(cfg *config.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Username, cfg.Password, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func NewMinioStorageFromEnv() (*MinioStorage, error) {
	cfg, err := config.NewMinioConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewMinioStorage(cfg)
}

func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	// If the bucket is already owned, succeed
	if err != nil {
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return err
	}
	return nil
}

var _ BlobStorage = (*MinioStorage)(nil)

func (s *MinioStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, data, opts.Size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	return err
}

func (s *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, ErrBlobNotFound)
		}
		return nil, err
	}
	return obj, nil
}

// MemoryStorage keeps blobs in memory.
type MemoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

var _ BlobStorage = (*MemoryStorage)(nil)

func (s *MemoryStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if opts.Size >= 0 && int64(len(b)) != opts.Size {
		return fmt.Errorf("put %s: read %d bytes, expected %d", key, len(b), opts.Size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = b
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrBlobNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
