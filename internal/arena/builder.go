// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

const defaultBuilderCapacity = 1 << 10 // 1 KiB, spec.md §4.5

// Builder is a growable, contiguous byte buffer used to compose keys and
// values before they are memoized into a Heap. Unlike a USlice, a Builder's
// buffer is mutable and may move on growth: views returned by Allocate or
// ToSlice are only valid until the next mutation.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder with defaultBuilderCapacity of backing
// storage preallocated.
func NewBuilder() *Builder {
	return &Builder{buf: make([]byte, 0, defaultBuilderCapacity)}
}

// Len returns the number of bytes currently held.
func (b *Builder) Len() int { return len(b.buf) }

// Cap returns the capacity of the underlying buffer.
func (b *Builder) Cap() int { return cap(b.buf) }

// Reset empties the builder without releasing its backing storage.
func (b *Builder) Reset() { b.buf = b.buf[:0] }

// growTo ensures the backing array can hold n bytes, doubling (next power
// of two) past the current capacity as needed.
func (b *Builder) growTo(n int) {
	if n <= cap(b.buf) {
		return
	}
	newCap := int(NextPowerOfTwo(uint64(n)))
	nb := make([]byte, len(b.buf), newCap)
	copy(nb, b.buf)
	b.buf = nb
}

// Append appends p to the builder's contents, growing as needed.
func (b *Builder) Append(p []byte) {
	b.growTo(len(b.buf) + len(p))
	b.buf = append(b.buf, p...)
}

// Set replaces the builder's contents with p.
func (b *Builder) Set(p []byte) {
	b.Reset()
	b.Append(p)
}

// Resize grows or shrinks the builder's length to n, filling new bytes with
// fill when growing.
func (b *Builder) Resize(n int, fill byte) {
	if n <= len(b.buf) {
		b.buf = b.buf[:n]
		return
	}
	b.growTo(n)
	old := len(b.buf)
	b.buf = b.buf[:n]
	for i := old; i < n; i++ {
		b.buf[i] = fill
	}
}

// Allocate grows the builder by n bytes and returns a USlice over the newly
// allocated region within the builder's own buffer. The returned USlice
// aliases the builder's buffer, not an arena page: it is valid only until
// the next mutation of this Builder, exactly like ToSlice, and must be
// memoized into a Heap before being retained past that point.
func (b *Builder) Allocate(n int, zeroed bool) USlice {
	start := len(b.buf)
	b.growTo(start + n)
	b.buf = b.buf[:start+n]
	if zeroed {
		clear(b.buf[start : start+n])
	}
	return sliceFrom(b.buf[start : start+n])
}

// ToSlice returns a USlice over the builder's current contents. The result
// aliases the builder's buffer and must not be retained past a subsequent
// mutation; callers that need a durable view should memoize it into a Heap
// first (Heap.Memoize(b.ToBytes())).
func (b *Builder) ToSlice() USlice {
	return sliceFrom(b.buf)
}

// ToBytes returns the builder's current contents as a []byte. Like ToSlice,
// the result aliases the builder's buffer.
func (b *Builder) ToBytes() []byte {
	return b.buf
}

// Swap exchanges two builders' buffers in O(1).
func (b *Builder) Swap(other *Builder) {
	b.buf, other.buf = other.buf, b.buf
}
