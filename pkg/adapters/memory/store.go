// Package memory provides an in-memory ResultStore, useful for tests and
// for embedding the engine without external storage.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[int]scan.Result
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[int]scan.Result),
	}
}

// Save persists one frame in memory.
func (s *Store) Save(ctx context.Context, scanID string, r scan.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames, ok := s.data[scanID]
	if !ok {
		frames = make(map[int]scan.Result)
		s.data[scanID] = frames
	}
	frames[r.Frame] = cloneResult(r)
	return nil
}

// Load retrieves one frame from memory.
func (s *Store) Load(ctx context.Context, scanID string, frame int) (*scan.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[scanID][frame]
	if !ok {
		return nil, ports.ErrResultNotFound
	}

	// Copy on read so callers can't mutate stored results by pointer.
	out := cloneResult(r)
	return &out, nil
}

// Frames lists stored frame numbers in ascending order.
func (s *Store) Frames(ctx context.Context, scanID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frames := make([]int, 0, len(s.data[scanID]))
	for f := range s.data[scanID] {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames, nil
}

// Delete removes every frame of a scan.
func (s *Store) Delete(ctx context.Context, scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, scanID)
	return nil
}

// cloneResult isolates stored results from the caller's pointers, matching
// what serialization would do in a durable store.
func cloneResult(r scan.Result) scan.Result {
	out := r
	if r.Pixel != nil {
		p := *r.Pixel
		out.Pixel = &p
	}
	if r.Lab != nil {
		l := *r.Lab
		out.Lab = &l
	}
	return out
}
