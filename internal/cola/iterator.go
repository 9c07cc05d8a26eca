// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cola

import "github.com/colakv/colakv/internal/base"

// Iterator walks a frozen snapshot of a Store in ascending or descending
// key order (spec.md §4.1 Iterator). The snapshot is taken once, at
// NewIterator time, by merging every level that was full at that moment
// into a single sorted sequence -- the same two-finger merge Insert uses,
// applied level by level from the top (highest index) down so that an
// already-merged, higher-priority accumulator always plays the "buffer"
// role in the tie-break. Equal elements from different levels are all
// kept, the higher level's copy first.
//
// Iterators hold no write lock and are unaffected by mutations to the
// Store performed after they were created (spec.md §5): a Store's cascades
// and BulkLoad/Remove always install fresh level slices rather than
// mutating one in place (SetAt is the one exception, documented on that
// method), so a snapshot merged at one instant stays stable.
type Iterator[T any, C base.Comparer[T]] struct {
	cmp C
	buf []T
	pos int // index into buf of the current element; -1 before start, len(buf) past end.
}

// NewIterator creates an Iterator over s's current contents. It does not
// hold a reference to s after construction.
func NewIterator[T any, C base.Comparer[T]](s *Store[T, C]) *Iterator[T, C] {
	var acc []T
	for i := s.maxLevels - 1; i >= 0; i-- {
		run := s.levels[i]
		if run == nil {
			continue
		}
		if acc == nil {
			acc = run
		} else {
			acc = merge[T, C](s.cmp, acc, run)
		}
	}
	return &Iterator[T, C]{cmp: s.cmp, buf: acc, pos: -1}
}

// Valid reports whether the iterator currently denotes an element.
func (it *Iterator[T, C]) Valid() bool {
	return it.pos >= 0 && it.pos < len(it.buf)
}

// Value returns the element the iterator currently denotes. It must only
// be called when Valid reports true.
func (it *Iterator[T, C]) Value() T {
	return it.buf[it.pos]
}

// First positions the iterator at the smallest element, or makes it
// invalid if the snapshot is empty.
func (it *Iterator[T, C]) First() {
	it.pos = 0
}

// Last positions the iterator at the largest element, or makes it invalid
// if the snapshot is empty.
func (it *Iterator[T, C]) Last() {
	it.pos = len(it.buf) - 1
}

// Next advances to the next larger element. Calling Next past the end
// (including after First() on an empty snapshot) is a no-op that leaves the
// iterator invalid; calling it while positioned before the first element
// (after Previous ran off the low end, or a SeekLT/SeekLE found nothing)
// moves to the first element.
func (it *Iterator[T, C]) Next() {
	if it.pos < len(it.buf) {
		it.pos++
	}
}

// Previous retreats to the next smaller element.
func (it *Iterator[T, C]) Previous() {
	if it.pos >= 0 {
		it.pos--
	}
}

// lowerBound returns the index of the first element >= key.
func (it *Iterator[T, C]) lowerBound(key T) int {
	lo, hi := 0, len(it.buf)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if it.cmp.Compare(it.buf[mid], key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// SeekGE positions the iterator at the smallest element >= key. If no such
// element exists, the iterator becomes invalid (spec.md §4.1 seek(x, ≥)
// beyond max returns false).
func (it *Iterator[T, C]) SeekGE(key T) {
	it.pos = it.lowerBound(key)
}

// SeekGT positions the iterator at the smallest element > key.
func (it *Iterator[T, C]) SeekGT(key T) {
	pos := it.lowerBound(key)
	if pos < len(it.buf) && it.cmp.Compare(it.buf[pos], key) == 0 {
		pos++
	}
	it.pos = pos
}

// SeekLE positions the iterator at the largest element <= key. If x is
// greater than every stored element, it returns the last element (spec.md
// §4.1 seek(x, ≤) where x > max returns the last element). If x is smaller
// than every stored element, the iterator becomes invalid (spec.md §4.1
// seek(x, ≤) where x < min returns false).
func (it *Iterator[T, C]) SeekLE(key T) {
	it.pos = it.lowerBound(key) - 1
	if it.pos+1 < len(it.buf) && it.cmp.Compare(it.buf[it.pos+1], key) == 0 {
		it.pos++
	}
}

// SeekLT positions the iterator at the largest element < key.
func (it *Iterator[T, C]) SeekLT(key T) {
	it.pos = it.lowerBound(key) - 1
}

// Len returns the number of elements in the frozen snapshot (spec.md §8.2:
// an iterator yields exactly N elements).
func (it *Iterator[T, C]) Len() int {
	return len(it.buf)
}
