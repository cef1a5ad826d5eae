// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !unix

package arena

import "errors"

// OffHeapSupported reports whether off-heap arenas are available on this
// platform.
const OffHeapSupported = false

var errOffHeapUnsupported = errors.New("off-heap arenas are not supported on this platform")

func mmapAnon(size int) ([]byte, error) {
	return nil, errOffHeapUnsupported
}

func unmap(buf []byte) error {
	return errOffHeapUnsupported
}
