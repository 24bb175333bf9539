package codec2

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

var leakLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used to report codecs released by the garbage
// collector instead of Close. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	leakLogger.Store(l)
}

func logger() *slog.Logger {
	if l := leakLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Codec owns one engine state for a fixed Mode.
type Codec struct {
	mode   Mode
	state  State
	closed atomic.Bool

	// scratch holds copies of Array buffers handed to the engine.
	scratch []byte
}

// New creates a Codec for mode. On error no Codec is returned and no engine
// state is held.
func New(engine Engine, mode Mode) (*Codec, error) {
	if !mode.Valid() {
		return nil, &EngineInitError{Mode: mode, Err: fmt.Errorf("unknown mode id %d", uint8(mode))}
	}
	if engine == nil {
		return nil, &EngineInitError{Mode: mode, Err: errors.New("no engine")}
	}

	state, err := engine.NewState(mode)
	if err != nil {
		return nil, &EngineInitError{Mode: mode, Err: err}
	}
	if state == nil {
		return nil, &EngineInitError{Mode: mode, Err: errors.New("engine returned no state")}
	}

	return adopt(state, mode), nil
}

func adopt(state State, mode Mode) *Codec {
	c := &Codec{mode: mode, state: state}
	runtime.SetFinalizer(c, finalizeCodec)
	return c
}

// finalizeCodec releases state left behind by a caller that never called Close.
func finalizeCodec(c *Codec) {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	logger().Warn("codec2: codec garbage collected without Close", slog.String("mode", c.mode.String()))
	c.state.Destroy()
	c.state = nil
}

// Mode returns the mode the Codec was created with.
func (c *Codec) Mode() Mode {
	return c.mode
}

// Geometry returns the frame geometry of the Codec's mode.
func (c *Codec) Geometry() Geometry {
	return c.mode.Geometry()
}

// Closed reports whether the Codec has been closed or transferred.
func (c *Codec) Closed() bool {
	return c.closed.Load()
}

// Close releases the engine state. Calling Close again returns ErrAlreadyClosed.
func (c *Codec) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}
	runtime.SetFinalizer(c, nil)
	c.state.Destroy()
	c.state = nil
	c.scratch = nil
	return nil
}

// Transfer moves ownership of the engine state to a new Codec. The receiver
// becomes unusable: later operations fail with ErrUseAfterClose and Close
// returns ErrAlreadyClosed.
func (c *Codec) Transfer() (*Codec, error) {
	if !c.closed.CompareAndSwap(false, true) {
		return nil, ErrUseAfterClose
	}
	runtime.SetFinalizer(c, nil)
	state := c.state
	c.state = nil
	c.scratch = nil
	return adopt(state, c.mode), nil
}
