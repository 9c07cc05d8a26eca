// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import "hash/fnv"

// NextPowerOfTwo returns the smallest power of two greater than or equal to
// n, with NextPowerOfTwo(0) == 1 (spec.md §4.5, tested by §8.7).
func NextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// HashBytes computes the 32-bit FNV-1a hash of b. FNV-1a is mandated by
// spec.md §4.5 specifically (stability across runs for external indexes),
// so this is the one place in the module where no ecosystem hash library
// is substituted for the standard library's hash/fnv.
func HashBytes(b []byte) uint32 {
	h := fnv.New32a()
	// hash.Hash32's Write never returns an error.
	_, _ = h.Write(b)
	return h.Sum32()
}
