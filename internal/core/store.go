package core

import (
	"fmt"
	"slices"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"farmboard/pkg/domain"
)

// Record is implemented by every entity held in a Store.
type Record interface {
	RecordID() int
}

// Store holds one entity type as an ordered sequence. Every value handed in
// or out is deep-copied so callers never alias the backing slice.
//
// Ids come from a high-water mark: the next id is one more than the largest
// id the store has ever held, so deleting the newest record does not free
// its id for reuse.
type Store[T Record] struct {
	mu      sync.RWMutex
	entity  domain.EntityType
	items   []T
	highest int
}

// NewStore seeds a store with copies of the provided records in order.
func NewStore[T Record](entity domain.EntityType, seed []T) *Store[T] {
	s := &Store[T]{entity: entity, items: make([]T, 0, len(seed))}
	for _, item := range seed {
		s.items = append(s.items, cloneRecord(item))
		if id := item.RecordID(); id > s.highest {
			s.highest = id
		}
	}
	return s
}

func cloneRecord[T any](v T) T {
	var out T
	if err := deepcopy.Copy(&out, &v); err != nil {
		panic(fmt.Errorf("clone record: %w", err))
	}
	return out
}

func cloneAll[T any](in []T) []T {
	out := make([]T, len(in))
	for i := range in {
		out[i] = cloneRecord(in[i])
	}
	return out
}

// Entity reports which entity type the store holds.
func (s *Store[T]) Entity() domain.EntityType { return s.entity }

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// List returns copies of all records in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.items)
}

// Filter returns copies of the records matching pred, in insertion order.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0)
	for _, item := range s.items {
		if pred(item) {
			out = append(out, cloneRecord(item))
		}
	}
	return out
}

// Find returns a copy of the record with id.
func (s *Store[T]) Find(id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, domain.ErrNotFound{Entity: s.entity, ID: id}
	}
	return cloneRecord(s.items[idx]), nil
}

// Insert assigns the next id, appends the record produced by build, and
// returns a copy of it.
func (s *Store[T]) Insert(build func(id int) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.highest + 1
	rec := build(id)
	if rec.RecordID() != id {
		var zero T
		return zero, fmt.Errorf("%s builder returned id %d, want %d", s.entity, rec.RecordID(), id)
	}
	s.items = append(s.items, cloneRecord(rec))
	s.highest = id
	return cloneRecord(rec), nil
}

// Update applies mutate to a copy of the record with id and stores the result.
// The mutator must not change the id.
func (s *Store[T]) Update(id int, mutate func(*T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, domain.ErrNotFound{Entity: s.entity, ID: id}
	}
	current := cloneRecord(s.items[idx])
	mutate(&current)
	if current.RecordID() != id {
		return zero, fmt.Errorf("%s %d: update changed id to %d", s.entity, id, current.RecordID())
	}
	s.items[idx] = cloneRecord(current)
	return current, nil
}

// Remove deletes the record with id and returns it.
func (s *Store[T]) Remove(id int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, domain.ErrNotFound{Entity: s.entity, ID: id}
	}
	removed := s.items[idx]
	s.items = slices.Delete(s.items, idx, idx+1)
	return removed, nil
}

func (s *Store[T]) indexOf(id int) int {
	for i, item := range s.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
