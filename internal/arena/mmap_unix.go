// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build unix

package arena

import (
	"golang.org/x/sys/unix"
)

// OffHeapSupported reports whether off-heap arenas are available on this
// platform.
const OffHeapSupported = true

func mmapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmap(buf []byte) error {
	return unix.Munmap(buf)
}
