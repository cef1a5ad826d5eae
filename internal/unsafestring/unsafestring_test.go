// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package unsafestring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToBytes(t *testing.T) {
	for _, input := range []string{
		"",
		"a",
		"hello, world",
		"😀",
	} {
		allocs := testing.AllocsPerRun(1, func() {
			b := ToBytes(input)
			if string(b) != input {
				t.Fatal("expected contents equal")
			}
			if len(b) != len(input) {
				t.Fatal("expected lens equal")
			}
		})
		require.Zero(t, allocs)
	}
}
