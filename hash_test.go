// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package arrayhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFuncsDeterministic(t *testing.T) {
	inputs := [][]byte{nil, {}, []byte("a"), []byte("hello, world"), make([]byte, 4096)}

	for _, h := range []HashFunc{FarmHash, XXHash} {
		for _, in := range inputs {
			require.Equal(t, h(in), h(in))
		}
		// nil and empty are the same key
		require.Equal(t, h(nil), h([]byte{}))
	}

	// not a collision test, just a sanity check that the functions spread
	// trivially distinct inputs
	assert.NotEqual(t, FarmHash([]byte("a")), FarmHash([]byte("b")))
	assert.NotEqual(t, XXHash([]byte("a")), XXHash([]byte("b")))
}

func TestFragmentUsesHighBits(t *testing.T) {
	// the home slot comes from the low bits, so the fragment must not
	assert.Equal(t, uint32(0xDEADBEEF), fragment(0xDEADBEEF_00000000))
	assert.Equal(t, uint32(0), fragment(0x00000000_FFFFFFFF))
}
