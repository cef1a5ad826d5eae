// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package arrayhash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-farm"
)

// HashFunc maps a key to a 64-bit hash.  It must be deterministic for the
// lifetime of a table; swapping hash functions on a populated table makes
// every existing key unreachable.  Weak hash functions degrade probing to
// linear scans but never produce wrong results.
type HashFunc func(key []byte) uint64

// FarmHash is the default hash function, farmhash64.
func FarmHash(key []byte) uint64 {
	return farm.Hash64(key)
}

// XXHash is an alternative hash function, xxHash64.  Select it with
// WithHashFunc(XXHash).
func XXHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// fragment is the cheap-to-compare portion of a hash stored in each slot.
// The low bits pick the home slot, so the fragment keeps the high bits.
func fragment(h uint64) uint32 {
	return uint32(h >> 32)
}
