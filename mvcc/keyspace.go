// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package mvcc layers a versioned keyspace over an ordered dictionary
// (spec.md §3.6, §4.6): every logical write becomes a (user_key, version,
// op_tag) entry, and reads at a version replay the entries up to that
// version in order.
package mvcc

import (
	"bytes"

	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/orderedset"
	"github.com/colakv/colakv/rangeset"
)

// OpTag identifies the kind of mutation recorded against a key at a given
// version (spec.md §4.6).
type OpTag byte

const (
	OpSet OpTag = iota
	OpClear
	OpAtomicAdd
	OpAtomicAnd
	OpAtomicOr
	OpAtomicXor
	OpAtomicMax
	OpAtomicMin
	OpAtomicByteMin
	OpAtomicByteMax
	OpAtomicAppendIfFits
	OpAtomicCompareAndClear
)

// versionedKey is the composite key the keyspace orders entries by:
// user_key ascending, then version ascending, then op tag. Two transactions
// writing the same key at different versions never collide because the
// commit path always assigns a fresh, strictly increasing version.
type versionedKey struct {
	UserKey []byte
	Version uint64
	Op      OpTag
}

type versionedEntry struct {
	Key     versionedKey
	Operand []byte
}

type versionedKeyComparer struct{}

func (versionedKeyComparer) Compare(a, b versionedKey) int {
	if c := bytes.Compare(a.UserKey, b.UserKey); c != 0 {
		return c
	}
	if a.Version != b.Version {
		if a.Version < b.Version {
			return -1
		}
		return 1
	}
	if a.Op != b.Op {
		if a.Op < b.Op {
			return -1
		}
		return 1
	}
	return 0
}

// byteBounds orders []byte keys for the range-clear tombstone map.
type byteBounds = base.Bytes

// Keyspace stores the full version history of every key, plus a range
// dictionary of "cleared at version v" tombstones used to answer
// clear_range without materialising a versioned entry per affected key.
type Keyspace struct {
	log    *orderedset.Map[versionedKey, []byte, versionedKeyComparer]
	clears *rangeset.RangeMap[[]byte, uint64, byteBounds]
}

// NewKeyspace creates an empty versioned keyspace. onCascade, if non-nil,
// is called whenever appending a versioned entry to the log triggers a
// multi-level merge cascade (spec.md §4.1, wired to
// EventListener.CascadeFinished by Store).
func NewKeyspace(maxLevels int, onCascade func(level, elements int)) *Keyspace {
	log := orderedset.NewMap[versionedKey, []byte, versionedKeyComparer](versionedKeyComparer{}, maxLevels)
	log.SetCascadeListener(onCascade)
	return &Keyspace{
		log:    log,
		clears: rangeset.NewRangeMap[[]byte, uint64, byteBounds](byteBounds{}, clearVersionEq, maxLevels),
	}
}

func clearVersionEq(a, b uint64) bool { return a == b }

// recordSet appends a Set or atomic-mutation entry at version for key.
func (k *Keyspace) recordSet(key []byte, version uint64, op OpTag, operand []byte) error {
	vk := versionedKey{UserKey: append([]byte(nil), key...), Version: version, Op: op}
	return k.log.Add(vk, append([]byte(nil), operand...))
}

// recordClearRange marks [b, e) cleared as of version: any read at a
// version >= this one sees no value for a key in range unless a later
// entry overrides it (spec.md §4.6 ClearRange).
func (k *Keyspace) recordClearRange(b, e []byte, version uint64) {
	k.clears.Mark(b, e, version)
}

// clearedAt returns the highest clear-range version covering key that is
// <= readVersion, or (0, false) if none applies.
func (k *Keyspace) clearedAt(key []byte, readVersion uint64) (uint64, bool) {
	v, ok := k.clears.At(key)
	if !ok || v > readVersion {
		return 0, false
	}
	return v, true
}

// valueAt replays every entry for key with version in (floor, readVersion]
// in ascending version order, starting from "absent", and returns the
// resulting value (spec.md §3.6: "a read at readVersion returns the effect
// of all op with version <= readVersion, applied in version order").
func (k *Keyspace) valueAt(key []byte, readVersion uint64) ([]byte, bool) {
	floor, _ := k.clearedAt(key, readVersion)

	it := k.log.Iterator()
	seekKey := versionedKey{UserKey: key, Version: floor, Op: 0}
	it.First()
	// Position at the first entry with UserKey == key and Version > floor.
	for it.Valid() && versionedKeyComparer{}.Compare(it.Key(), seekKey) < 0 {
		it.Next()
	}

	var value []byte
	var present bool
	for ; it.Valid(); it.Next() {
		vk := it.Key()
		if !bytes.Equal(vk.UserKey, key) {
			break
		}
		if vk.Version > readVersion {
			break
		}
		if vk.Version <= floor {
			continue
		}
		value, present = applyOp(value, present, vk.Op, it.Value())
	}
	return value, present
}

// snapshotKeys returns every user key with a present value at readVersion,
// in ascending order. Used to resolve key selectors and to serve
// get_range (spec.md §4.6).
func (k *Keyspace) snapshotKeys(readVersion uint64) [][]byte {
	var out [][]byte
	it := k.log.Iterator()
	var last []byte
	var haveLast bool
	for it.First(); it.Valid(); it.Next() {
		key := it.Key().UserKey
		if haveLast && bytes.Equal(key, last) {
			continue
		}
		last = append([]byte(nil), key...)
		haveLast = true
		if _, present := k.valueAt(key, readVersion); present {
			out = append(out, last)
		}
	}
	return out
}

// applyOp folds a single recorded mutation onto the accumulated value.
func applyOp(value []byte, present bool, op OpTag, operand []byte) ([]byte, bool) {
	switch op {
	case OpSet:
		return append([]byte(nil), operand...), true
	case OpClear:
		return nil, false
	case OpAtomicAdd, OpAtomicAnd, OpAtomicOr, OpAtomicXor, OpAtomicMax, OpAtomicMin,
		OpAtomicByteMin, OpAtomicByteMax, OpAtomicAppendIfFits, OpAtomicCompareAndClear:
		return applyAtomic(op, value, present, operand)
	default:
		return value, present
	}
}
