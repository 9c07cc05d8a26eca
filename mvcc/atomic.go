// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"bytes"
	"encoding/binary"
)

// applyAtomic folds one atomic mutation onto the existing value, following
// the little-endian unsigned integer conventions used by FoundationDB-style
// atomic ops for the arithmetic/bitwise mutations (spec.md §4.6).
func applyAtomic(op OpTag, existing []byte, present bool, operand []byte) ([]byte, bool) {
	switch op {
	case OpAtomicAdd:
		return bitwiseNumeric(existing, present, operand, func(a, b uint64) uint64 { return a + b })
	case OpAtomicAnd:
		return bitwiseBytes(existing, present, operand, func(a, b byte) byte { return a & b })
	case OpAtomicOr:
		return bitwiseBytes(existing, present, operand, func(a, b byte) byte { return a | b })
	case OpAtomicXor:
		return bitwiseBytes(existing, present, operand, func(a, b byte) byte { return a ^ b })
	case OpAtomicMax:
		return cmpBytes(existing, present, operand, func(c int) bool { return c < 0 })
	case OpAtomicMin:
		return cmpBytes(existing, present, operand, func(c int) bool { return c > 0 })
	case OpAtomicByteMax:
		return cmpLexicographic(existing, present, operand, func(c int) bool { return c < 0 })
	case OpAtomicByteMin:
		return cmpLexicographic(existing, present, operand, func(c int) bool { return c > 0 })
	case OpAtomicAppendIfFits:
		return appendIfFits(existing, present, operand)
	case OpAtomicCompareAndClear:
		return compareAndClear(existing, present, operand)
	default:
		return existing, present
	}
}

func bitwiseNumeric(existing []byte, present bool, operand []byte, fn func(a, b uint64) uint64) ([]byte, bool) {
	a := decodeUint(existing, present)
	b := decodeUint(operand, true)
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, fn(a, b))
	return out, true
}

func decodeUint(b []byte, present bool) uint64 {
	if !present || len(b) == 0 {
		return 0
	}
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:])
}

func bitwiseBytes(existing []byte, present bool, operand []byte, fn func(a, b byte) byte) ([]byte, bool) {
	if !present {
		existing = make([]byte, len(operand))
	}
	n := len(operand)
	if len(existing) > n {
		n = len(existing)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var a, b byte
		if i < len(existing) {
			a = existing[i]
		}
		if i < len(operand) {
			b = operand[i]
		}
		out[i] = fn(a, b)
	}
	return out, true
}

// cmpBytes compares existing and operand as little-endian unsigned
// integers and keeps whichever side wantLeft(cmp) selects.
func cmpBytes(existing []byte, present bool, operand []byte, wantLeft func(cmp int) bool) ([]byte, bool) {
	if !present {
		return append([]byte(nil), operand...), true
	}
	a := decodeUint(existing, true)
	b := decodeUint(operand, true)
	cmp := 0
	switch {
	case a < b:
		cmp = -1
	case a > b:
		cmp = 1
	}
	if wantLeft(cmp) {
		return append([]byte(nil), operand...), true
	}
	return existing, true
}

// cmpLexicographic is the byte-min/byte-max family: plain lexicographic
// bytes.Compare rather than little-endian integer decoding.
func cmpLexicographic(existing []byte, present bool, operand []byte, wantLeft func(cmp int) bool) ([]byte, bool) {
	if !present {
		return append([]byte(nil), operand...), true
	}
	if wantLeft(bytes.Compare(existing, operand)) {
		return append([]byte(nil), operand...), true
	}
	return existing, true
}

func appendIfFits(existing []byte, present bool, operand []byte) ([]byte, bool) {
	const maxValueSize = 1 << 16
	base := existing
	if !present {
		base = nil
	}
	if len(base)+len(operand) > maxValueSize {
		return existing, present
	}
	return append(append([]byte(nil), base...), operand...), true
}

// compareAndClear takes operand as the expected current value and clears
// the key (returns absent) only if existing matches it exactly.
func compareAndClear(existing []byte, present bool, operand []byte) ([]byte, bool) {
	if present && bytes.Equal(existing, operand) {
		return nil, false
	}
	return existing, present
}
