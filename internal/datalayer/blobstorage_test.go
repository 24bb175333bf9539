package datalayer_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/glizzus/c2rec/internal/datalayer"
	"github.com/google/go-cmp/cmp"
)

func TestMemoryStorage(t *testing.T) {
	s := datalayer.NewMemoryStorage()
	data := []byte{0xC0, 0xDE, 0xC2, 1, 0, 1, 0}

	if err := s.Put(t.Context(), "recordings/a.c2", bytes.NewReader(data), datalayer.PutOptions{Size: int64(len(data))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, err := s.Get(t.Context(), "recordings/a.c2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Get(t.Context(), "recordings/missing.c2"); !errors.Is(err, datalayer.ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}

	if err := s.Put(t.Context(), "short", bytes.NewReader(data), datalayer.PutOptions{Size: 100}); err == nil {
		t.Errorf("expected size mismatch error")
	}
}
