// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"bytes"
	"sort"
)

// SelectorKind names one of the key-selector resolution modes of spec.md
// §4.6. colakv exposes these as a closed enum rather than FoundationDB's
// generalised (key, orEqual, offset) triple: the spec only names the four
// canonical forms ("first_greater_or_equal, last_less_than, …"), so the
// offset generalisation is not part of this module's contract.
type SelectorKind int

const (
	FirstGreaterOrEqual SelectorKind = iota
	FirstGreaterThan
	LastLessThan
	LastLessOrEqual
)

// KeySelector names a logical position relative to Key within the current
// set of live keys.
type KeySelector struct {
	Kind SelectorKind
	Key  []byte
}

// MaxSystemKey is the clamp applied to high-side selectors that may resolve
// into the system keyspace (spec.md §4.6: "0xFF 0xFF" clamp).
var MaxSystemKey = []byte{0xFF, 0xFF}

// MaxUserKey is the clamp applied to ordinary high-side selectors.
var MaxUserKey = []byte{0xFF}

// MinKey is the clamp applied to low-side selectors.
var MinKey = []byte{}

// resolve finds sel's position within the ascending, deduplicated key list
// keys, clamping out-of-range results to the low/high bound.
func resolve(keys [][]byte, sel KeySelector, systemAccess bool) []byte {
	lo, hi := MinKey, MaxUserKey
	if systemAccess {
		hi = MaxSystemKey
	}

	// idx is the first index with keys[idx] >= sel.Key.
	idx := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], sel.Key) >= 0 })

	switch sel.Kind {
	case FirstGreaterOrEqual:
		if idx < len(keys) {
			return keys[idx]
		}
		return hi
	case FirstGreaterThan:
		if idx < len(keys) && bytes.Equal(keys[idx], sel.Key) {
			idx++
		}
		if idx < len(keys) {
			return keys[idx]
		}
		return hi
	case LastLessThan:
		if idx == 0 {
			return lo
		}
		return keys[idx-1]
	case LastLessOrEqual:
		if idx < len(keys) && bytes.Equal(keys[idx], sel.Key) {
			return keys[idx]
		}
		if idx == 0 {
			return lo
		}
		return keys[idx-1]
	default:
		return lo
	}
}
