// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
)

// writeIndex tracks, for every key ever written by a committed transaction,
// the highest commit version that touched it. A conflict exists when a
// transaction's read set intersects a key whose writeIndex version falls
// inside (readVersion, commitVersion] (spec.md §3.6, §4.6). Keys a
// transaction only writes, without reading them, are not checked.
type writeIndex struct {
	prefilter bloomFilter
	versions  *swiss.Map[string, uint64]
}

func newWriteIndex() *writeIndex {
	return &writeIndex{
		prefilter: newBloomFilter(1 << 16),
		versions:  swiss.New[string, uint64](256),
	}
}

func (w *writeIndex) record(key []byte, version uint64) {
	s := string(key)
	w.prefilter.add(s)
	w.versions.Put(s, version)
}

// lastWriteVersion returns the most recent commit version that wrote key,
// or (0, false) if the prefilter rules it out or it was never written.
func (w *writeIndex) lastWriteVersion(key []byte) (uint64, bool) {
	s := string(key)
	if !w.prefilter.mightContain(s) {
		return 0, false
	}
	return w.versions.Get(s)
}

// readSet accumulates the keys a write transaction has observed, for
// conflict checking at commit time.
type readSet struct {
	keys *swiss.Map[string, struct{}]
}

func newReadSet() *readSet {
	return &readSet{keys: swiss.New[string, struct{}](16)}
}

func (r *readSet) add(key []byte) {
	r.keys.Put(string(key), struct{}{})
}

func (r *readSet) forEach(fn func(key string)) {
	r.keys.All(func(k string, _ struct{}) bool {
		fn(k)
		return true
	})
}

// bloomFilter is a small fixed-size counting-free Bloom filter over
// xxhash digests, used to skip the swiss.Map lookup for keys that were
// certainly never written (spec.md doesn't mandate this; it's an
// optimisation over the conflict range query of §4.6).
type bloomFilter struct {
	bits []uint64
}

func newBloomFilter(bits int) bloomFilter {
	return bloomFilter{bits: make([]uint64, (bits+63)/64)}
}

func (f bloomFilter) add(s string) {
	h := xxhash.Sum64String(s)
	for _, idx := range f.positions(h) {
		f.bits[idx/64] |= 1 << (idx % 64)
	}
}

func (f bloomFilter) mightContain(s string) bool {
	h := xxhash.Sum64String(s)
	for _, idx := range f.positions(h) {
		if f.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// positions derives two bit indexes from one 64-bit hash via the
// double-hashing technique (splitting the hash into high/low halves),
// avoiding a second independent hash function call.
func (f bloomFilter) positions(h uint64) [2]uint64 {
	n := uint64(len(f.bits) * 64)
	hi, lo := h>>32, h&0xFFFFFFFF
	return [2]uint64{hi % n, lo % n}
}
