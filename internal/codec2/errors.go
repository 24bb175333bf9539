package codec2

import (
	"errors"
	"fmt"
)

var (
	// ErrUseAfterClose is returned by operations on a closed or transferred Codec.
	ErrUseAfterClose = errors.New("codec2: use of closed codec")
	// ErrAlreadyClosed is returned by a second Close.
	ErrAlreadyClosed = errors.New("codec2: codec already closed")
)

// EngineInitError indicates the engine could not create state for a mode.
// The Codec was never constructed; a fresh New may be attempted.
type EngineInitError struct {
	Mode Mode
	Err  error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("codec2: create state for mode %s: %v", e.Mode, e.Err)
}

func (e *EngineInitError) Unwrap() error { return e.Err }

var _ error = (*EngineInitError)(nil)

// EngineError is a failure reported by the engine during a transform.
// Treat the Codec as suspect and recreate it if the failure repeats.
type EngineError struct {
	Op   string
	Mode Mode
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("codec2: %s (mode %s): %v", e.Op, e.Mode, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

var _ error = (*EngineError)(nil)

// InvalidArgumentError reports a buffer that violates the frame contract.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("codec2: %s: invalid argument: %s", e.Op, e.Reason)
}

var _ error = (*InvalidArgumentError)(nil)

// MalformedHeaderError reports a stream header that cannot be parsed.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return "codec2: malformed header: " + e.Reason
}

var _ error = (*MalformedHeaderError)(nil)
