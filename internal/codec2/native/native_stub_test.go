//go:build !(cgo && codec2)

package native_test

import (
	"errors"
	"testing"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/glizzus/c2rec/internal/codec2/native"
)

func TestUnavailable(t *testing.T) {
	if native.Available() {
		t.Fatal("Available() = true without libcodec2")
	}
	for _, m := range codec2.Modes() {
		if native.Supported(m) {
			t.Errorf("Supported(%s) = true without libcodec2", m)
		}
	}

	_, err := codec2.New(native.New(), codec2.Mode3200)
	if !errors.Is(err, native.ErrUnavailable) {
		t.Errorf("New() error = %v, want ErrUnavailable", err)
	}
}
