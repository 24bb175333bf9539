//go:build cgo && codec2

package native

/*
#cgo LDFLAGS: -lcodec2
#include <codec2/codec2.h>
#include <stdlib.h>
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/glizzus/c2rec/internal/codec2"
)

const available = true

// libraryModes maps persisted mode ids to libcodec2's CODEC2_MODE_* values,
// which are not contiguous.
var libraryModes = [...]C.int{
	codec2.Mode3200: C.CODEC2_MODE_3200,
	codec2.Mode2400: C.CODEC2_MODE_2400,
	codec2.Mode1600: C.CODEC2_MODE_1600,
	codec2.Mode1400: C.CODEC2_MODE_1400,
	codec2.Mode1300: C.CODEC2_MODE_1300,
	codec2.Mode1200: C.CODEC2_MODE_1200,
	codec2.Mode700C: C.CODEC2_MODE_700C,
}

type state struct {
	handle   *C.struct_CODEC2
	samples  int
	bytes    int
	padded   []byte
	decodeTo []C.short
}

func newState(mode codec2.Mode) (codec2.State, error) {
	handle := C.codec2_create(libraryModes[mode])
	if handle == nil {
		return nil, errors.New("codec2_create returned NULL")
	}

	g := mode.Geometry()
	samples := int(C.codec2_samples_per_frame(handle))
	bytes := int((C.codec2_bits_per_frame(handle) + 7) / 8)
	if samples != g.SamplesPerFrame || bytes != g.BytesPerFrame {
		C.codec2_destroy(handle)
		return nil, &GeometryError{
			Mode:    mode,
			Library: codec2.Geometry{SamplesPerFrame: samples, BytesPerFrame: bytes},
		}
	}

	return &state{
		handle:   handle,
		samples:  samples,
		bytes:    bytes,
		padded:   make([]byte, samples*2),
		decodeTo: make([]C.short, samples),
	}, nil
}

func (s *state) Encode(pcm []byte, samples int) ([]byte, error) {
	if s.handle == nil {
		return nil, errors.New("state destroyed")
	}
	if samples <= 0 || samples > s.samples || len(pcm) < samples*2 {
		return nil, fmt.Errorf("bad sample count %d for %d bytes", samples, len(pcm))
	}

	in := pcm
	// Short frames are zero-padded; odd addresses are realigned for short*.
	if samples < s.samples || uintptr(unsafe.Pointer(&pcm[0]))%2 != 0 {
		clear(s.padded)
		copy(s.padded, pcm[:samples*2])
		in = s.padded
	}

	out := make([]byte, s.bytes)
	C.codec2_encode(s.handle,
		(*C.uchar)(unsafe.Pointer(&out[0])),
		(*C.short)(unsafe.Pointer(&in[0])),
	)
	return out, nil
}

func (s *state) Decode(bits []byte) ([]byte, error) {
	if s.handle == nil {
		return nil, errors.New("state destroyed")
	}
	if len(bits) != s.bytes {
		return nil, fmt.Errorf("bad frame length %d", len(bits))
	}

	C.codec2_decode(s.handle,
		&s.decodeTo[0],
		(*C.uchar)(unsafe.Pointer(&bits[0])),
	)
	pcm := make([]byte, s.samples*2)
	copy(pcm, unsafe.Slice((*byte)(unsafe.Pointer(&s.decodeTo[0])), s.samples*2))
	return pcm, nil
}

func (s *state) Destroy() {
	if s.handle == nil {
		return
	}
	C.codec2_destroy(s.handle)
	s.handle = nil
}
