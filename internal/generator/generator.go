package generator

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces successive values of type T, such as recording IDs.
type Generator[T any] interface {
	Next() (T, error)
}

// UUIDV7Generator produces time-ordered UUIDv7 strings, so recording IDs sort
// roughly by creation time.
type UUIDV7Generator struct{}

func (g UUIDV7Generator) Next() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

var _ Generator[string] = UUIDV7Generator{}

// SequenceGenerator hands out the given values in order and fails once they
// run out.
type SequenceGenerator[T any] struct {
	mu     sync.Mutex
	values []T
}

func NewSequenceGenerator[T any](values ...T) *SequenceGenerator[T] {
	return &SequenceGenerator[T]{values: values}
}

func (g *SequenceGenerator[T]) Next() (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var zero T
	if len(g.values) == 0 {
		return zero, fmt.Errorf("sequence exhausted")
	}
	v := g.values[0]
	g.values = g.values[1:]
	return v, nil
}

var _ Generator[string] = (*SequenceGenerator[string])(nil)
