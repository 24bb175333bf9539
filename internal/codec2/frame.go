package codec2

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"
)

// Buffer is a frame handed to Encode or Decode. Exactly one field must be
// non-nil.
type Buffer struct {
	// Direct is passed to the engine in place, without copying.
	Direct []byte
	// Array is copied into Codec-owned memory before the engine reads it.
	Array []byte
}

// DirectBuffer wraps b for zero-copy passing.
func DirectBuffer(b []byte) Buffer {
	return Buffer{Direct: b}
}

// ArrayBuffer wraps b for copied passing.
func ArrayBuffer(b []byte) Buffer {
	return Buffer{Array: b}
}

func (b Buffer) resolve(op string) (data []byte, direct bool, err error) {
	switch {
	case b.Direct != nil && b.Array != nil:
		return nil, false, &InvalidArgumentError{Op: op, Reason: "both direct and array buffers supplied"}
	case b.Direct != nil:
		return b.Direct, true, nil
	case b.Array != nil:
		return b.Array, false, nil
	default:
		return nil, false, &InvalidArgumentError{Op: op, Reason: "no buffer supplied"}
	}
}

// Encode compresses one frame of native-endian 16-bit PCM.
//
// The sample count is len(buffer)/2; a trailing odd byte is ignored. Counts
// from 1 to SamplesPerFrame are forwarded to the engine, which zero-pads a
// short frame. Empty buffers and buffers longer than one frame are rejected.
// The result is exactly Geometry().BytesPerFrame bytes.
func (c *Codec) Encode(pcm Buffer) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrUseAfterClose
	}
	data, direct, err := pcm.resolve("encode")
	if err != nil {
		return nil, err
	}

	g := c.mode.Geometry()
	samples := len(data) / 2
	if samples == 0 {
		return nil, &InvalidArgumentError{Op: "encode", Reason: fmt.Sprintf("%d bytes holds no complete sample", len(data))}
	}
	if samples > g.SamplesPerFrame {
		return nil, &InvalidArgumentError{
			Op:     "encode",
			Reason: fmt.Sprintf("%d samples exceeds the %d-sample frame", samples, g.SamplesPerFrame),
		}
	}

	data = data[:samples*2]
	if !direct {
		if c.scratch == nil {
			c.scratch = make([]byte, g.PCMBytesPerFrame())
		}
		data = c.scratch[:copy(c.scratch, data)]
	}

	out, err := c.state.Encode(data, samples)
	runtime.KeepAlive(c)
	if err != nil {
		return nil, &EngineError{Op: "encode", Mode: c.mode, Err: err}
	}
	if len(out) != g.BytesPerFrame {
		return nil, &EngineError{
			Op:   "encode",
			Mode: c.mode,
			Err:  fmt.Errorf("engine produced %d bytes, want %d", len(out), g.BytesPerFrame),
		}
	}
	return out, nil
}

// Decode expands one encoded frame into SamplesPerFrame native-endian
// samples. Only Direct buffers are accepted.
func (c *Codec) Decode(encoded Buffer) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrUseAfterClose
	}
	if encoded.Array != nil {
		return nil, &InvalidArgumentError{Op: "decode", Reason: "decode accepts only direct buffers"}
	}
	data, _, err := encoded.resolve("decode")
	if err != nil {
		return nil, err
	}

	g := c.mode.Geometry()
	if len(data) != g.BytesPerFrame {
		return nil, &InvalidArgumentError{
			Op:     "decode",
			Reason: fmt.Sprintf("encoded frame is %d bytes, mode %s needs %d", len(data), c.mode, g.BytesPerFrame),
		}
	}

	out, err := c.state.Decode(data)
	runtime.KeepAlive(c)
	if err != nil {
		return nil, &EngineError{Op: "decode", Mode: c.mode, Err: err}
	}
	if len(out) != g.PCMBytesPerFrame() {
		return nil, &EngineError{
			Op:   "decode",
			Mode: c.mode,
			Err:  fmt.Errorf("engine produced %d PCM bytes, want %d", len(out), g.PCMBytesPerFrame()),
		}
	}
	return out, nil
}

// EncodeSamples encodes samples without copying them.
func (c *Codec) EncodeSamples(samples []int16) ([]byte, error) {
	return c.Encode(DirectBuffer(sampleBytes(samples)))
}

// DecodeSamples decodes one frame into a new sample slice.
func (c *Codec) DecodeSamples(encoded []byte) ([]int16, error) {
	pcm, err := c.Decode(DirectBuffer(encoded))
	if err != nil {
		return nil, err
	}
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.NativeEndian.Uint16(pcm[i*2:]))
	}
	return samples, nil
}

// sampleBytes views samples as their native-endian bytes.
func sampleBytes(samples []int16) []byte {
	if len(samples) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
}
