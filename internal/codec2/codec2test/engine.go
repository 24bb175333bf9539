// Package codec2test provides a deterministic in-memory codec engine for tests.
//
// The engine is not a speech codec. Each state hashes its input together with
// the previous frame it processed, so outputs depend on input and on that
// state's own history, which makes cross-state leakage observable.
package codec2test

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/glizzus/c2rec/internal/codec2"
)

// Engine implements codec2.Engine and counts state lifecycle events.
type Engine struct {
	// FailNew, when set, is returned by NewState.
	FailNew error
	// FailEncode and FailDecode, when set, are returned by every transform.
	FailEncode error
	FailDecode error

	mu        sync.Mutex
	created   int
	destroyed int
	doubles   int
	lastCount int
}

var _ codec2.Engine = (*Engine)(nil)

// New returns an Engine with no injected failures.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) NewState(mode codec2.Mode) (codec2.State, error) {
	if e.FailNew != nil {
		return nil, e.FailNew
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported mode %d", uint8(mode))
	}
	e.mu.Lock()
	e.created++
	e.mu.Unlock()
	return &State{engine: e, geometry: mode.Geometry(), prev: uint64(mode) + 1}, nil
}

// Created is the number of states handed out.
func (e *Engine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

// Destroyed is the number of states released.
func (e *Engine) Destroyed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Live is the number of states created and not yet released.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created - e.destroyed
}

// DoubleDestroys counts Destroy calls on already released states.
func (e *Engine) DoubleDestroys() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubles
}

// LastSampleCount is the sample count of the most recent Encode call.
func (e *Engine) LastSampleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCount
}

// State is one engine instance.
type State struct {
	engine    *Engine
	geometry  codec2.Geometry
	prev      uint64
	destroyed bool
}

var errDestroyed = errors.New("state used after destroy")

func (s *State) Encode(pcm []byte, samples int) ([]byte, error) {
	if s.destroyed {
		return nil, errDestroyed
	}
	if s.engine.FailEncode != nil {
		return nil, s.engine.FailEncode
	}
	if samples <= 0 || samples > s.geometry.SamplesPerFrame || len(pcm) < samples*2 {
		return nil, fmt.Errorf("bad sample count %d for %d bytes", samples, len(pcm))
	}
	s.engine.mu.Lock()
	s.engine.lastCount = samples
	s.engine.mu.Unlock()

	frame := make([]byte, s.geometry.PCMBytesPerFrame())
	copy(frame, pcm[:samples*2])
	sum := s.mix(frame)

	out := make([]byte, s.geometry.BytesPerFrame)
	var word [8]byte
	binary.LittleEndian.PutUint64(word[:], sum)
	copy(out, word[:])
	return out, nil
}

func (s *State) Decode(bits []byte) ([]byte, error) {
	if s.destroyed {
		return nil, errDestroyed
	}
	if s.engine.FailDecode != nil {
		return nil, s.engine.FailDecode
	}
	if len(bits) != s.geometry.BytesPerFrame {
		return nil, fmt.Errorf("bad frame length %d", len(bits))
	}
	sum := s.mix(bits)

	pcm := make([]byte, s.geometry.PCMBytesPerFrame())
	for i := 0; i < s.geometry.SamplesPerFrame; i++ {
		v := int16(bits[i%len(bits)]) - 128 + int16(sum>>(i%56)&0x7)
		binary.NativeEndian.PutUint16(pcm[i*2:], uint16(v))
	}
	return pcm, nil
}

func (s *State) Destroy() {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	if s.destroyed {
		s.engine.doubles++
		return
	}
	s.destroyed = true
	s.engine.destroyed++
}

// mix folds b into the state's history and returns the new digest.
func (s *State) mix(b []byte) uint64 {
	h := fnv.New64a()
	var prev [8]byte
	binary.LittleEndian.PutUint64(prev[:], s.prev)
	h.Write(prev[:])
	h.Write(b)
	s.prev = h.Sum64()
	return s.prev
}
