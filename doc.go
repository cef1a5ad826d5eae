// Copyright 2026 The arrayhash Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package arrayhash provides a hash table specialized for string and
// byte-slice keys.
//
// Instead of allocating every key on the heap the way map[string]V does, all
// key bytes are appended to one shared arena and each slot stores a packed
// (offset, length) reference plus a 32-bit hash fragment.  Probing compares
// fragments first and touches key bytes only on a fragment match, so a lookup
// typically costs one cache-friendly linear scan of the slot array and a
// single byte comparison.
//
//	m, err := arrayhash.New[int](1024)
//	if err != nil { ... }
//	m.PutString("apple", 1)
//	v, ok := m.GetString("apple")
//
// Tables are single-writer: synchronize externally before sharing a Map or
// Set across goroutines.
package arrayhash
