// Package keyed provides small mutex-guarded generic collections backing the
// process-wide bookkeeping tables in internal/logging.
//
// Each Table and Set owns exactly one lock. Callers never hold a lock across
// two collections, which keeps the tables deadlock-free by construction.
package keyed

import "sync"

// Table is a mutex-guarded map from K to V.
type Table[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
}

// NewTable returns an empty table.
func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V)}
}

// Put stores value under key, replacing any previous entry.
func (t *Table[K, V]) Put(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = value
}

// Get returns the value stored under key. A miss is reported through the
// boolean, never as an error.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, ok := t.entries[key]
	return value, ok
}

// Delete removes the entry for key if present.
func (t *Table[K, V]) Delete(key K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Len reports the number of entries.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Snapshot copies the current entries into a fresh map.
func (t *Table[K, V]) Snapshot() map[K]V {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[K]V, len(t.entries))
	for key, value := range t.entries {
		out[key] = value
	}
	return out
}

// Set is a mutex-guarded set of K.
type Set[K comparable] struct {
	mu      sync.Mutex
	members map[K]struct{}
}

// NewSet returns an empty set.
func NewSet[K comparable]() *Set[K] {
	return &Set[K]{members: make(map[K]struct{})}
}

// Add inserts key into the set.
func (s *Set[K]) Add(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[key] = struct{}{}
}

// Remove drops key from the set if present.
func (s *Set[K]) Remove(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, key)
}

// RemoveFunc drops every member for which match returns true.
func (s *Set[K]) RemoveFunc(match func(K) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.members {
		if match(key) {
			delete(s.members, key)
		}
	}
}

// Has reports whether key is a member.
func (s *Set[K]) Has(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[key]
	return ok
}

// Items copies the current members into a fresh slice. Order is unspecified.
func (s *Set[K]) Items() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]K, 0, len(s.members))
	for key := range s.members {
		out = append(out, key)
	}
	return out
}

// Len reports the number of members.
func (s *Set[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}
