package resource

import (
	"fmt"
	"sync"
	"time"
)

// Record is anything the backend identifies by id.
type Record interface {
	RecordID() string
}

// Snapshot represents the latest collection data available to a screen.
type Snapshot[T any] struct {
	Items               []T
	Loaded              bool // at least one fetch succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Stale reports whether the items shown come from an older fetch because the
// most recent one failed.
func (s Snapshot[T]) Stale() bool {
	return s.Loaded && s.LastError != nil
}

// Empty reports whether a successful fetch returned no records.
func (s Snapshot[T]) Empty() bool {
	return s.Loaded && len(s.Items) == 0
}

// Store coordinates concurrent updates to a collection snapshot.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
}

// Replace swaps in a freshly fetched collection and clears the error state.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Items = cloneItems(items)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Fail records a fetch error. The previous items are kept.
func (s *Store[T]) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Find returns the record with the given id from the current snapshot.
func Find[T Record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
