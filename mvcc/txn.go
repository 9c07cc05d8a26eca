// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"bytes"
	"context"
	"time"

	"github.com/colakv/colakv/internal/base"
)

// KV is a single resolved key/value pair returned from a range read.
type KV struct {
	Key   []byte
	Value []byte
}

// ReadTxn is a snapshot at a fixed version (spec.md §6).
type ReadTxn struct {
	store       *Store
	readVersion uint64
	ctx         context.Context
}

// ReadVersion returns the version this snapshot observes.
func (t *ReadTxn) ReadVersion() uint64 { return t.readVersion }

// Context returns a context carrying this transaction's log tags, for
// callers that want to thread it into their own logging or tracing.
func (t *ReadTxn) Context() context.Context { return t.ctx }

// Get returns the value at key as of ReadVersion, if present.
func (t *ReadTxn) Get(key []byte) ([]byte, bool) {
	start := time.Now()
	v, ok := t.store.keyspace.valueAt(key, t.readVersion)
	t.store.metrics.RecordFind(time.Since(start))
	return v, ok
}

// GetKey resolves sel to a concrete key as of ReadVersion (spec.md §4.6).
func (t *ReadTxn) GetKey(sel KeySelector) []byte {
	keys := t.store.keyspace.snapshotKeys(t.readVersion)
	return resolve(keys, sel, false)
}

// GetRange returns every live key/value pair with key in
// [resolve(beginSel), resolve(endSel)), in ascending key order.
func (t *ReadTxn) GetRange(beginSel, endSel KeySelector) []KV {
	keys := t.store.keyspace.snapshotKeys(t.readVersion)
	begin := resolve(keys, beginSel, false)
	end := resolve(keys, endSel, false)

	var out []KV
	for _, k := range keys {
		if bytes.Compare(k, begin) < 0 || bytes.Compare(k, end) >= 0 {
			continue
		}
		if v, ok := t.store.keyspace.valueAt(k, t.readVersion); ok {
			out = append(out, KV{Key: k, Value: v})
		}
	}
	return out
}

type pendingClearRange struct{ begin, end []byte }

// WriteTxn is a mutable transaction: writes buffer locally and are only
// applied to the keyspace on a successful Commit (spec.md §6).
type WriteTxn struct {
	ReadTxn

	reads       *readSet
	writes      []versionedEntry
	clearRanges []pendingClearRange
	done        bool
}

// Get behaves like ReadTxn.Get but additionally records key in this
// transaction's read set for conflict detection at commit time.
func (t *WriteTxn) Get(key []byte) ([]byte, bool) {
	t.reads.add(key)
	return t.ReadTxn.Get(key)
}

// GetRange behaves like ReadTxn.GetRange but records every returned key in
// the read set. The resolved begin/end bounds themselves are not recorded.
func (t *WriteTxn) GetRange(beginSel, endSel KeySelector) []KV {
	rows := t.ReadTxn.GetRange(beginSel, endSel)
	for _, kv := range rows {
		t.reads.add(kv.Key)
	}
	return rows
}

// Set stages a write of value at key, applied at commit.
func (t *WriteTxn) Set(key, value []byte) {
	t.writes = append(t.writes, versionedEntry{
		Key:     versionedKey{UserKey: append([]byte(nil), key...), Op: OpSet},
		Operand: append([]byte(nil), value...),
	})
}

// Clear stages removal of key, applied at commit.
func (t *WriteTxn) Clear(key []byte) {
	t.writes = append(t.writes, versionedEntry{
		Key: versionedKey{UserKey: append([]byte(nil), key...), Op: OpClear},
	})
}

// ClearRange stages removal of every key in [b, e), applied at commit.
func (t *WriteTxn) ClearRange(b, e []byte) {
	t.clearRanges = append(t.clearRanges, pendingClearRange{
		begin: append([]byte(nil), b...),
		end:   append([]byte(nil), e...),
	})
}

// Atomic stages an atomic mutation of kind op against key with the given
// operand, applied at commit (spec.md §4.6).
func (t *WriteTxn) Atomic(key []byte, op OpTag, operand []byte) {
	t.writes = append(t.writes, versionedEntry{
		Key:     versionedKey{UserKey: append([]byte(nil), key...), Op: op},
		Operand: append([]byte(nil), operand...),
	})
}

// Commit assigns this transaction a commit version and, if no key in its
// read set was written by another transaction that committed after
// ReadVersion, applies its buffered writes to the keyspace (spec.md §3.6,
// §6). Conflict detection operates at key granularity: a ClearRange does
// not itself register as a conflicting write against arbitrary keys inside
// its span, only against keys explicitly Set/Cleared/mutated by name.
func (t *WriteTxn) Commit() (uint64, error) {
	if t.done {
		return 0, base.AssertionFailedf("transaction already finalized")
	}
	t.done = true
	start := time.Now()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	var conflictKey []byte
	t.reads.forEach(func(key string) {
		if conflictKey != nil {
			return
		}
		if v, ok := t.store.writes.lastWriteVersion([]byte(key)); ok && v > t.readVersion {
			conflictKey = []byte(key)
		}
	})
	if conflictKey != nil {
		t.store.listener.ConflictDetected(conflictKey, t.readVersion, t.store.currentVersion+1)
		return 0, base.ErrConflict
	}

	commitVersion := t.store.currentVersion + 1
	for _, w := range coalesceWrites(t.writes) {
		insertStart := time.Now()
		if err := t.store.keyspace.recordSet(w.Key.UserKey, commitVersion, w.Key.Op, w.Operand); err != nil {
			return 0, err
		}
		t.store.metrics.RecordInsert(time.Since(insertStart))
		t.store.writes.record(w.Key.UserKey, commitVersion)
	}
	for _, cr := range t.clearRanges {
		t.store.keyspace.recordClearRange(cr.begin, cr.end, commitVersion)
	}
	t.store.currentVersion = commitVersion
	t.store.metrics.RecordCommit(time.Since(start))
	return commitVersion, nil
}

// coalesceWrites keeps only the last staged write for each (UserKey, Op)
// pair, in first-occurrence order. Every buffered write in one transaction
// shares the same commit version, so two Set (or two same-kind Atomic)
// calls against the same key would otherwise stage two versionedEntry
// values with an identical versionedKey and collide as a duplicate when
// applied to the keyspace.
func coalesceWrites(writes []versionedEntry) []versionedEntry {
	type key struct {
		userKey string
		op      OpTag
	}
	idx := make(map[key]int, len(writes))
	out := make([]versionedEntry, 0, len(writes))
	for _, w := range writes {
		k := key{string(w.Key.UserKey), w.Key.Op}
		if i, ok := idx[k]; ok {
			out[i] = w
			continue
		}
		idx[k] = len(out)
		out = append(out, w)
	}
	return out
}
