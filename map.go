// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package arrayhash

import (
	"iter"

	"github.com/arrayhash-go/arrayhash/internal/unsafestring"
)

// Map is a hash table specialized for byte-slice and string keys.  Key bytes
// live contiguously in a single arena and slots hold compact references into
// it, so lookups mostly resolve with one 32-bit fragment comparison and stay
// on sequential cache lines.
//
// A Map is not safe for concurrent use: writers need exclusive access, and
// readers must not overlap a writer, since a rehash relocates the key arena
// out from under in-flight probes.
type Map[V any] struct {
	table[V]
}

// New returns an empty map with at least the given slot capacity (rounded up
// to a power of two; non-positive means DefaultCapacity).
func New[V any](capacity int, opts ...Option) (*Map[V], error) {
	var m Map[V]
	if err := m.init(capacity, opts...); err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the value stored for key.  It never allocates or mutates the
// map.  The empty key is a valid key.
func (m *Map[V]) Get(key []byte) (V, bool) {
	return m.get(key)
}

// GetString is Get for string keys, without copying the key.
func (m *Map[V]) GetString(key string) (V, bool) {
	return m.get(unsafestring.ToBytes(key))
}

// Put stores value under key, copying the key bytes into the arena if the
// key is new.  If the key was already present only its value changes, and
// the previous value is returned with replaced set.  On error the map is
// unchanged.
func (m *Map[V]) Put(key []byte, value V) (prev V, replaced bool, err error) {
	return m.put(key, value)
}

// PutString is Put for string keys.
func (m *Map[V]) PutString(key string, value V) (prev V, replaced bool, err error) {
	return m.put(unsafestring.ToBytes(key), value)
}

// Delete removes key, returning the value it held.  Deleting an absent key
// is a no-op.  The key's arena bytes are reclaimed by the next rehash.
func (m *Map[V]) Delete(key []byte) (V, bool) {
	return m.delete(key)
}

// DeleteString is Delete for string keys.
func (m *Map[V]) DeleteString(key string) (V, bool) {
	return m.delete(unsafestring.ToBytes(key))
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int {
	return m.occupied
}

// IsEmpty reports whether the map has no live entries.
func (m *Map[V]) IsEmpty() bool {
	return m.occupied == 0
}

// All returns an iterator over all entries in unspecified order.  Yielded
// keys are views into the key arena: valid until the next mutation, and they
// must be copied if retained.  Mutating the map while ranging is the same
// caller error as mutating any container mid-iteration; restart by calling
// All again once the map is idle.
func (m *Map[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if s.state != slotOccupied {
				continue
			}
			if !yield(m.keys.Bytes(s.key), s.value) {
				return
			}
		}
	}
}

// Clear removes all entries, keeping the current capacity.  All previously
// yielded key views are invalidated.
func (m *Map[V]) Clear() {
	m.clearAll()
}

// Close releases the key arena.  Required for maps built with
// WithOffHeapKeys; harmless otherwise.  The map must not be used afterwards.
func (m *Map[V]) Close() error {
	return m.keys.Close()
}

// Stats describes the occupancy of a table.
type Stats struct {
	Len        int     // live entries
	Tombstones int     // deleted slots awaiting the next rehash
	Capacity   int     // total slots
	Load       float64 // (Len + Tombstones) / Capacity
	KeyBytes   int     // bytes held in the key arena, dead keys included
}

// Stats returns a snapshot of the map's occupancy.
func (m *Map[V]) Stats() Stats {
	return Stats{
		Len:        m.occupied,
		Tombstones: m.tombstones,
		Capacity:   len(m.slots),
		Load:       float64(m.occupied+m.tombstones) / float64(len(m.slots)),
		KeyBytes:   m.keys.Len(),
	}
}
