// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package arrayhash

import "iter"

// Set is a hash set for byte-slice and string keys, sharing the Map core.
type Set struct {
	m Map[struct{}]
}

// NewSet returns an empty set with at least the given slot capacity.
func NewSet(capacity int, opts ...Option) (*Set, error) {
	var s Set
	if err := s.m.init(capacity, opts...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Add inserts key, reporting whether it was newly added.
func (s *Set) Add(key []byte) (bool, error) {
	_, replaced, err := s.m.Put(key, struct{}{})
	return !replaced, err
}

// AddString is Add for string keys.
func (s *Set) AddString(key string) (bool, error) {
	_, replaced, err := s.m.PutString(key, struct{}{})
	return !replaced, err
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key []byte) bool {
	_, ok := s.m.Get(key)
	return ok
}

// ContainsString is Contains for string keys.
func (s *Set) ContainsString(key string) bool {
	_, ok := s.m.GetString(key)
	return ok
}

// Remove deletes key, reporting whether it was present.
func (s *Set) Remove(key []byte) bool {
	_, ok := s.m.Delete(key)
	return ok
}

// RemoveString is Remove for string keys.
func (s *Set) RemoveString(key string) bool {
	_, ok := s.m.DeleteString(key)
	return ok
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	return s.m.Len()
}

// IsEmpty reports whether the set has no keys.
func (s *Set) IsEmpty() bool {
	return s.m.IsEmpty()
}

// All returns an iterator over all keys in unspecified order.  Yielded keys
// are views into the key arena; copy them if retained past the next
// mutation.
func (s *Set) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clear removes all keys, keeping the current capacity.
func (s *Set) Clear() {
	s.m.Clear()
}

// Close releases the key arena.  The set must not be used afterwards.
func (s *Set) Close() error {
	return s.m.Close()
}

// Stats returns a snapshot of the set's occupancy.
func (s *Set) Stats() Stats {
	return s.m.Stats()
}
