// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package arrayhash

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"

	"github.com/arrayhash-go/arrayhash/internal/arena"
)

const (
	// DefaultMaxLoadFactor is the occupancy fraction (live entries plus
	// tombstones) past which the table rehashes.
	DefaultMaxLoadFactor = 0.7

	// DefaultCapacity is the slot count used when New is given a
	// non-positive capacity.
	DefaultCapacity = 16

	minCapacity = 4
)

var (
	// ErrKeyTooBig is returned by Put for keys longer than the configured
	// maximum.  The table is left unchanged.
	ErrKeyTooBig = errors.New("key exceeds the maximum supported length")

	// ErrTableFull is returned by Put when a table bounded with
	// WithMaxCapacity cannot admit another key.
	ErrTableFull = errors.New("table is at its configured maximum capacity")
)

// Slot states.  A tombstone keeps probe chains intact after a delete: probing
// skips it but never stops there, since keys inserted later may live past it.
// Tombstones only revert to empty when a rehash rebuilds the whole table.
const (
	slotEmpty uint8 = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	state    uint8
	fragment uint32
	key      arena.Ref
	value    V
}

// table is the open-addressing core shared by Map and Set.  Slot capacity is
// always a power of two; collisions resolve by linear probing, which keeps
// probe chains on sequential cache lines.
type table[V any] struct {
	slots      []slot[V]
	mask       uint64
	occupied   int
	tombstones int

	keys *arena.Arena

	hash        HashFunc
	maxLoad     float64
	maxCapacity int
	maxKeyLen   int
	offHeap     bool
	logger      *slog.Logger
}

// Option configures a Map or Set at construction time.
type Option func(*config)

type config struct {
	hash          HashFunc
	maxLoad       float64
	maxCapacity   int
	maxKeyLen     int
	arenaCapacity int
	offHeap       bool
	logger        *slog.Logger
}

// WithHashFunc overrides the default hash function (FarmHash).
func WithHashFunc(h HashFunc) Option {
	return func(cfg *config) {
		cfg.hash = h
	}
}

// WithMaxLoadFactor overrides DefaultMaxLoadFactor.  Must be in (0, 1);
// values near 1 trade longer probe chains for denser tables.
func WithMaxLoadFactor(f float64) Option {
	return func(cfg *config) {
		cfg.maxLoad = f
	}
}

// WithMaxCapacity bounds the slot count (rounded up to a power of two).
// A bounded table reports ErrTableFull instead of growing past the bound.
func WithMaxCapacity(n int) Option {
	return func(cfg *config) {
		cfg.maxCapacity = n
	}
}

// WithMaxKeyLen rejects keys longer than n bytes with ErrKeyTooBig before
// they touch the key arena.
func WithMaxKeyLen(n int) Option {
	return func(cfg *config) {
		cfg.maxKeyLen = n
	}
}

// WithArenaCapacity pre-sizes the key arena, in bytes.
func WithArenaCapacity(n int) Option {
	return func(cfg *config) {
		cfg.arenaCapacity = n
	}
}

// WithOffHeapKeys stores key bytes in anonymous mmap'd memory instead of the
// GC-scanned heap.  Close must be called to release it.  Only available on
// unix platforms.
func WithOffHeapKeys() Option {
	return func(cfg *config) {
		cfg.offHeap = true
	}
}

// WithLogger sets an optional logger used for debug output on rehashes.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func (t *table[V]) init(capacity int, opts ...Option) error {
	cfg := config{
		hash:      FarmHash,
		maxLoad:   DefaultMaxLoadFactor,
		maxKeyLen: arena.MaxEntryLen,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxLoad <= 0 || cfg.maxLoad >= 1 {
		return fmt.Errorf("max load factor %v outside (0, 1)", cfg.maxLoad)
	}
	if cfg.hash == nil {
		return errors.New("nil hash function")
	}
	if cfg.maxKeyLen < 0 || cfg.maxKeyLen > arena.MaxEntryLen {
		return fmt.Errorf("max key length %d outside [0, %d]", cfg.maxKeyLen, arena.MaxEntryLen)
	}

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity < minCapacity {
		capacity = minCapacity
	}
	capacity = nextPow2(capacity)
	if cfg.maxCapacity > 0 {
		cfg.maxCapacity = nextPow2(max(cfg.maxCapacity, minCapacity))
		if capacity > cfg.maxCapacity {
			return fmt.Errorf("initial capacity %d exceeds maximum capacity %d", capacity, cfg.maxCapacity)
		}
	}

	keys, err := arena.New(cfg.arenaCapacity, cfg.offHeap)
	if err != nil {
		return fmt.Errorf("key arena: %w", err)
	}

	t.slots = make([]slot[V], capacity)
	t.mask = uint64(capacity - 1)
	t.keys = keys
	t.hash = cfg.hash
	t.maxLoad = cfg.maxLoad
	t.maxCapacity = cfg.maxCapacity
	t.maxKeyLen = cfg.maxKeyLen
	t.offHeap = cfg.offHeap
	t.logger = cfg.logger
	return nil
}

// find probes for key starting at its home slot.  On a hit it returns the
// occupied slot index.  On a miss it returns the earliest reusable slot
// (tombstone or empty) seen on the probe path, which keeps chains short when
// the caller inserts there.
func (t *table[V]) find(key []byte, h uint64) (pos int, found bool) {
	frag := fragment(h)
	insert := -1
	i := h & t.mask
	for n := 0; n < len(t.slots); n++ {
		s := &t.slots[i]
		switch s.state {
		case slotEmpty:
			if insert < 0 {
				insert = int(i)
			}
			return insert, false
		case slotTombstone:
			if insert < 0 {
				insert = int(i)
			}
		default:
			// Fragments reject nearly all non-matching slots without
			// touching the arena; byte comparison only disambiguates
			// true hash collisions.
			if s.fragment == frag && bytes.Equal(t.keys.Bytes(s.key), key) {
				return int(i), true
			}
		}
		i = (i + 1) & t.mask
	}
	if insert >= 0 {
		return insert, false
	}
	// Unreachable while the load factor invariant holds: there is always at
	// least one empty or tombstone slot.
	panic("arrayhash: probe sequence exhausted, table state corrupted")
}

func (t *table[V]) get(key []byte) (V, bool) {
	pos, found := t.find(key, t.hash(key))
	if !found {
		var zero V
		return zero, false
	}
	return t.slots[pos].value, true
}

func (t *table[V]) put(key []byte, value V) (prev V, replaced bool, err error) {
	var zero V
	if len(key) > t.maxKeyLen {
		return zero, false, ErrKeyTooBig
	}

	h := t.hash(key)
	pos, found := t.find(key, h)
	if found {
		prev, t.slots[pos].value = t.slots[pos].value, value
		return prev, true, nil
	}

	if float64(t.occupied+t.tombstones+1) > t.maxLoad*float64(len(t.slots)) {
		if err := t.rehash(); err != nil {
			return zero, false, err
		}
		pos, _ = t.find(key, h)
	}

	ref, err := t.keys.Append(key)
	if err != nil {
		return zero, false, fmt.Errorf("store key: %w", err)
	}
	s := &t.slots[pos]
	if s.state == slotTombstone {
		t.tombstones--
	}
	s.state = slotOccupied
	s.fragment = fragment(h)
	s.key = ref
	s.value = value
	t.occupied++
	return zero, false, nil
}

func (t *table[V]) delete(key []byte) (prev V, ok bool) {
	var zero V
	if t.occupied == 0 {
		return zero, false
	}
	pos, found := t.find(key, t.hash(key))
	if !found {
		return zero, false
	}
	s := &t.slots[pos]
	prev = s.value
	s.state = slotTombstone
	s.key = 0
	s.value = zero
	t.occupied--
	t.tombstones++
	return prev, true
}

// rehash rebuilds the slot array and compacts the key arena down to live
// keys.  Capacity doubles when live entries crowd the table; when only
// tombstones pushed it over the threshold, capacity stays put and the
// rebuild just purges them.
func (t *table[V]) rehash() error {
	capacity := len(t.slots)
	if float64(t.occupied+1) > t.maxLoad*float64(capacity) {
		capacity *= 2
		if t.maxCapacity > 0 && capacity > t.maxCapacity {
			return ErrTableFull
		}
	}

	next := table[V]{
		slots:   make([]slot[V], capacity),
		mask:    uint64(capacity - 1),
		hash:    t.hash,
		maxLoad: t.maxLoad,
	}
	keys, err := arena.New(t.keys.Len(), t.offHeap)
	if err != nil {
		return fmt.Errorf("rehash arena: %w", err)
	}
	next.keys = keys

	for i := range t.slots {
		s := &t.slots[i]
		if s.state != slotOccupied {
			continue
		}
		b := t.keys.Bytes(s.key)
		ref, err := next.keys.Append(b)
		if err != nil {
			_ = next.keys.Close()
			return fmt.Errorf("rehash arena: %w", err)
		}
		h := next.hash(b)
		pos, _ := next.find(b, h)
		next.slots[pos] = slot[V]{
			state:    slotOccupied,
			fragment: fragment(h),
			key:      ref,
			value:    s.value,
		}
		next.occupied++
	}

	old := t.keys
	t.slots = next.slots
	t.mask = next.mask
	t.keys = next.keys
	t.tombstones = 0
	if err := old.Close(); err != nil {
		return fmt.Errorf("release old arena: %w", err)
	}

	t.logger.Debug("rehashed table",
		"capacity", capacity,
		"live", t.occupied,
		"key_bytes", t.keys.Len())
	return nil
}

func (t *table[V]) clearAll() {
	clear(t.slots)
	t.occupied = 0
	t.tombstones = 0
	t.keys.Reset()
}

func nextPow2(n int) int {
	return 1 << bits.Len64(uint64(n-1))
}
