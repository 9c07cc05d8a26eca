// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import (
	"bytes"
	"unsafe"
)

// USlice is an unmanaged byte view: a (pointer, length) pair into a page
// owned by a Heap. It is the target-language replacement for the source's
// pinned managed buffer handle (spec.md §9, §3.1): instead of pinning a
// runtime-movable buffer, a USlice points directly into an arena page that
// never moves for the lifetime of the Heap that owns it.
//
// A USlice is immutable from the consumer's perspective. The only way to
// mutate the bytes it denotes is through the Builder that produced it,
// before the builder's contents are memoized into a USlice.
//
// USlice is Send only via its owning Heap and is not safe for concurrent
// publication without external synchronization (spec.md §5): the Heap is
// exclusively owned by a single writer, and readers only ever observe
// USlices drawn from a frozen snapshot.
type USlice struct {
	ptr unsafe.Pointer
	len uint32
}

// NilSlice is the zero-length, zero-pointer USlice. len == 0 implies ptr ==
// nil as an invariant throughout this package (spec.md §3.1).
var NilSlice = USlice{}

// sliceFrom constructs a USlice over a byte range that the caller guarantees
// lies entirely inside one live arena page for as long as the USlice is
// reachable. It is unexported: only Heap and Builder may call it, since
// they are the only things that can make that guarantee.
func sliceFrom(p []byte) USlice {
	if len(p) == 0 {
		return NilSlice
	}
	return USlice{ptr: unsafe.Pointer(&p[0]), len: uint32(len(p))}
}

// Len returns the number of bytes the slice denotes.
func (s USlice) Len() int { return int(s.len) }

// IsEmpty reports whether the slice denotes zero bytes.
func (s USlice) IsEmpty() bool { return s.len == 0 }

// Bytes reconstructs a []byte header over the arena memory the slice
// denotes. The returned slice aliases arena memory: it must not be
// retained past the lifetime of the owning Heap, and must not be mutated,
// since that would corrupt any other USlice aliasing the same bytes.
func (s USlice) Bytes() []byte {
	if s.len == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(s.ptr), int(s.len))
}

// Compare orders two USlices by unsigned lexicographic byte order, with the
// shorter slice sorting first when one is a prefix of the other (spec.md
// §3.1).
func (s USlice) Compare(other USlice) int {
	return bytes.Compare(s.Bytes(), other.Bytes())
}

// Equal reports whether the two slices denote byte-identical content.
func (s USlice) Equal(other USlice) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Hash returns the 32-bit FNV-1a hash of the slice's bytes (spec.md §4.5).
func (s USlice) Hash() uint32 {
	return HashBytes(s.Bytes())
}

// String returns a copy of the slice's bytes as a Go string, for debugging
// and error messages. It does not alias arena memory.
func (s USlice) String() string {
	return string(s.Bytes())
}
