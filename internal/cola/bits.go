// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package cola implements the Cache-Oblivious Lookahead Array engine that
// backs every ordered container in colakv (spec.md §3.3, §4.1). It knows
// nothing about keys or values beyond what a base.Comparer[T] tells it.
package cola

import (
	"math/bits"

	"github.com/colakv/colakv/internal/base"
)

// LowestBit returns the index of the least significant set bit of n, or 0
// if n == 0 (spec.md §4.1).
func LowestBit(n uint64) int {
	if n == 0 {
		return 0
	}
	return bits.TrailingZeros64(n)
}

// HighestBit returns the index of the most significant set bit of n, or 0
// if n == 0 (spec.md §4.1).
func HighestBit(n uint64) int {
	if n == 0 {
		return 0
	}
	return bits.Len64(n) - 1
}

// MapOffsetToIndex resolves an in-order physical offset off into a COLA of
// size n to a (level, offsetInLevel) address, walking the set bits of n
// from highest to lowest (spec.md §4.1). Index space is addressed by
// physical slot, not by sorted order: level runs are concatenated
// highest-bit-first.
func MapOffsetToIndex(n uint64, off uint64) (level int, offsetInLevel uint64, err error) {
	if off >= n {
		return 0, 0, base.AssertionFailedf("map_offset_to_index: offset %d out of range for size %d", off, n)
	}
	cum := uint64(0)
	for i := HighestBit(n); i >= 0; i-- {
		if n&(1<<uint(i)) == 0 {
			continue
		}
		levelCap := uint64(1) << uint(i)
		if off < cum+levelCap {
			return i, off - cum, nil
		}
		cum += levelCap
	}
	return 0, 0, base.AssertionFailedf("map_offset_to_index: offset %d not covered by bit pattern of %d", off, n)
}
