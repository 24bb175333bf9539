package codec2

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// StreamWriter writes a .c2 stream: the header once, then encoded frames.
type StreamWriter struct {
	w         io.Writer
	header    Header
	frameSize int
	started   bool
	frames    int64
}

// NewStreamWriter returns a StreamWriter for streams described by h. The
// header mode must be valid.
func NewStreamWriter(w io.Writer, h Header) (*StreamWriter, error) {
	if !h.Mode.Valid() {
		return nil, &InvalidArgumentError{
			Op:     "new stream writer",
			Reason: fmt.Sprintf("unknown mode id %d", uint8(h.Mode)),
		}
	}
	return &StreamWriter{
		w:         w,
		header:    h,
		frameSize: h.Mode.Geometry().BytesPerFrame,
	}, nil
}

// Header returns the header the writer emits.
func (s *StreamWriter) Header() Header {
	return s.header
}

// Frames returns the number of frames written so far.
func (s *StreamWriter) Frames() int64 {
	return s.frames
}

// WriteHeader writes the header if it has not been written yet.
func (s *StreamWriter) WriteHeader() error {
	if s.started {
		return nil
	}
	b := s.header.Bytes()
	if _, err := s.w.Write(b[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	s.started = true
	return nil
}

// WriteFrame appends one encoded frame, writing the header first if needed.
func (s *StreamWriter) WriteFrame(frame []byte) error {
	if len(frame) != s.frameSize {
		return &InvalidArgumentError{
			Op:     "write frame",
			Reason: fmt.Sprintf("frame is %d bytes, mode %s needs %d", len(frame), s.header.Mode, s.frameSize),
		}
	}
	if err := s.WriteHeader(); err != nil {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("write frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// StreamReader reads frames from a .c2 stream.
type StreamReader struct {
	r      io.Reader
	header Header
}

// NewStreamReader consumes and parses the stream header.
func NewStreamReader(r io.Reader) (*StreamReader, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &MalformedHeaderError{Reason: "stream ends before header"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := ParseHeader(b[:])
	if err != nil {
		return nil, err
	}
	return &StreamReader{r: r, header: h}, nil
}

// Header returns the parsed stream header.
func (s *StreamReader) Header() Header {
	return s.header
}

// ReadFrame returns the next encoded frame. It returns io.EOF at the end of
// the stream and io.ErrUnexpectedEOF if the stream ends mid-frame.
func (s *StreamReader) ReadFrame() ([]byte, error) {
	frame := make([]byte, s.header.Mode.Geometry().BytesPerFrame)
	if _, err := io.ReadFull(s.r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// EncodeStream encodes raw PCM from src into a .c2 stream on dst, one frame
// per call to c. A trailing partial frame is zero-padded. It returns the
// number of frames written.
func EncodeStream(ctx context.Context, c *Codec, dst io.Writer, src io.Reader, sideInfo bool) (int64, error) {
	sw, err := NewStreamWriter(dst, NewHeader(c.Mode(), sideInfo))
	if err != nil {
		return 0, err
	}
	if err := sw.WriteHeader(); err != nil {
		return 0, err
	}

	pcm := make([]byte, c.Geometry().PCMBytesPerFrame())
	for {
		if err := ctx.Err(); err != nil {
			return sw.Frames(), err
		}

		n, err := io.ReadFull(src, pcm)
		if errors.Is(err, io.EOF) {
			return sw.Frames(), nil
		}
		last := errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !last {
			return sw.Frames(), fmt.Errorf("read pcm: %w", err)
		}
		if last {
			clear(pcm[n:])
		}

		frame, err := c.Encode(DirectBuffer(pcm))
		if err != nil {
			return sw.Frames(), err
		}
		if err := sw.WriteFrame(frame); err != nil {
			return sw.Frames(), err
		}
		if last {
			return sw.Frames(), nil
		}
	}
}

// DecodeStream decodes every remaining frame of src into raw PCM on dst.
// The stream mode must match c. It returns the number of frames decoded.
func DecodeStream(ctx context.Context, c *Codec, dst io.Writer, src *StreamReader) (int64, error) {
	if src.Header().Mode != c.Mode() {
		return 0, &InvalidArgumentError{
			Op:     "decode stream",
			Reason: fmt.Sprintf("stream mode %s does not match codec mode %s", src.Header().Mode, c.Mode()),
		}
	}

	var frames int64
	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}

		frame, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("read frame %d: %w", frames, err)
		}

		pcm, err := c.Decode(DirectBuffer(frame))
		if err != nil {
			return frames, err
		}
		if _, err := dst.Write(pcm); err != nil {
			return frames, fmt.Errorf("write pcm: %w", err)
		}
		frames++
	}
}
