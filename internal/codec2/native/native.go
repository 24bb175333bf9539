// Package native binds libcodec2 as a codec2.Engine.
//
// The cgo implementation is compiled with the "codec2" build tag and links
// against -lcodec2. Without the tag, NewState fails with ErrUnavailable.
//
// A state is only handed out when the library's frame geometry for a mode
// equals codec2.Mode.Geometry. Stock libcodec2 agrees for Mode3200 only; the
// other modes report 2400: 160 samples/6 bytes, 1600: 320/8, 1400: 320/7,
// 1300: 320/7, 1200: 320/6 and 700C: 320/4, and NewState fails for them with
// a *GeometryError. Supported reports which modes the linked library accepts.
package native

import (
	"errors"
	"fmt"

	"github.com/glizzus/c2rec/internal/codec2"
)

// ErrUnavailable is returned when the binary was built without libcodec2.
var ErrUnavailable = errors.New("libcodec2 support not compiled in (build with -tags codec2)")

// GeometryError reports a mode whose libcodec2 frame geometry differs from
// the fixed codec2 frame geometry.
type GeometryError struct {
	Mode    codec2.Mode
	Library codec2.Geometry
}

var _ error = (*GeometryError)(nil)

func (e *GeometryError) Error() string {
	want := e.Mode.Geometry()
	return fmt.Sprintf("libcodec2 mode %s frames are %d samples/%d bytes, want %d/%d",
		e.Mode, e.Library.SamplesPerFrame, e.Library.BytesPerFrame,
		want.SamplesPerFrame, want.BytesPerFrame)
}

// Engine creates libcodec2 states.
type Engine struct{}

var _ codec2.Engine = Engine{}

// New returns the libcodec2 engine.
func New() Engine {
	return Engine{}
}

// Available reports whether libcodec2 is linked into the binary.
func Available() bool {
	return available
}

// Supported reports whether NewState succeeds for mode with the linked library.
func Supported(mode codec2.Mode) bool {
	s, err := Engine{}.NewState(mode)
	if err != nil {
		return false
	}
	s.Destroy()
	return true
}

func (Engine) NewState(mode codec2.Mode) (codec2.State, error) {
	if !mode.Valid() {
		return nil, errors.New("unknown mode")
	}
	return newState(mode)
}
