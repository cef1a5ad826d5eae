// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package arena implements the append-only byte buffer that backs key storage
// for the hash table.  All keys live contiguously in a single buffer and are
// addressed by compact packed references rather than per-key allocations.
package arena

import (
	"errors"
	"fmt"
)

const (
	lenBits = 24
	offBits = 40

	// MaxEntryLen is the largest single entry an arena can hold; lengths
	// are packed into the low 24 bits of a Ref.
	MaxEntryLen = 1<<lenBits - 1

	// maxSize is the largest offset a Ref can address (40 bits, 1 TiB).
	maxSize = 1 << offBits

	minCapacity = 64
)

var (
	// ErrOversizeEntry is returned when a single entry doesn't fit in a Ref.
	ErrOversizeEntry = errors.New("entry too large for arena (max 16 MiB)")
	// ErrExhausted is returned when the arena has reached its maximum
	// addressable size.
	ErrExhausted = errors.New("arena exhausted (max 1 TiB)")
)

// Ref packs an arena offset + entry length into a 64-bit value.  Refs are
// stable across Append calls: growing the arena copies bytes to a new backing
// buffer but never changes offsets.  Only a full rebuild of the arena (done by
// the table during a rehash) produces new Refs.
type Ref uint64

// NewRef packs off and n into a Ref.  Callers must have validated both
// against MaxEntryLen and maxSize.
func NewRef(off uint64, n int) Ref {
	return Ref(off<<lenBits | uint64(n))
}

// Unpack returns the offset and length held by the Ref.
func (r Ref) Unpack() (off uint64, n int) {
	return uint64(r) >> lenBits, int(uint64(r) & MaxEntryLen)
}

// Len returns the entry length held by the Ref.
func (r Ref) Len() int {
	return int(uint64(r) & MaxEntryLen)
}

// Arena is an append-only byte buffer.  It is not safe for concurrent use.
type Arena struct {
	buf     []byte // backing storage; len(buf) is the current capacity
	used    int
	offHeap bool
}

// New returns an arena with at least the given initial capacity.  If offHeap
// is set, backing memory is allocated with anonymous mmap and kept out of the
// GC-scanned heap; Close must be called to release it.
func New(capacity int, offHeap bool) (*Arena, error) {
	a := &Arena{offHeap: offHeap}
	if capacity > 0 {
		if err := a.grow(capacity); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Append copies b to the end of the arena and returns a Ref for it.  On error
// the arena is unchanged.
func (a *Arena) Append(b []byte) (Ref, error) {
	if len(b) > MaxEntryLen {
		return 0, ErrOversizeEntry
	}
	if uint64(a.used)+uint64(len(b)) > maxSize {
		return 0, ErrExhausted
	}
	if a.used+len(b) > len(a.buf) {
		if err := a.grow(a.used + len(b)); err != nil {
			return 0, err
		}
	}
	off := uint64(a.used)
	copy(a.buf[a.used:], b)
	a.used += len(b)
	return NewRef(off, len(b)), nil
}

// Bytes returns the stored bytes for ref as a view into the arena.  The view
// is valid until the arena is reset, closed, or rebuilt.
func (a *Arena) Bytes(ref Ref) []byte {
	off, n := ref.Unpack()
	return a.buf[off : int(off)+n : int(off)+n]
}

// Len returns the number of bytes appended so far.
func (a *Arena) Len() int {
	return a.used
}

// Cap returns the current capacity of the backing buffer.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Reset forgets all appended bytes, keeping the backing buffer.  All
// previously returned Refs are invalidated.
func (a *Arena) Reset() {
	a.used = 0
}

// Close releases the backing buffer.  The arena must not be used afterwards.
func (a *Arena) Close() error {
	buf := a.buf
	a.buf = nil
	a.used = 0
	if a.offHeap && buf != nil {
		return unmap(buf)
	}
	return nil
}

func (a *Arena) grow(need int) error {
	capacity := len(a.buf) * 2
	if capacity < minCapacity {
		capacity = minCapacity
	}
	for capacity < need {
		capacity *= 2
	}

	var (
		buf []byte
		err error
	)
	if a.offHeap {
		buf, err = mmapAnon(capacity)
		if err != nil {
			return fmt.Errorf("arena: off-heap alloc of %d bytes: %w", capacity, err)
		}
	} else {
		buf = make([]byte, capacity)
	}
	copy(buf, a.buf[:a.used])
	if a.offHeap && a.buf != nil {
		if err := unmap(a.buf); err != nil {
			return fmt.Errorf("arena: release old buffer: %w", err)
		}
	}
	a.buf = buf
	return nil
}
