//go:build !(cgo && codec2)

package native

import "github.com/glizzus/c2rec/internal/codec2"

const available = false

func newState(codec2.Mode) (codec2.State, error) {
	return nil, ErrUnavailable
}
