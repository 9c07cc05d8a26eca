// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package orderedset

import (
	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/internal/cola"
)

// Map is an ordered dictionary: it compares entries by key only (spec.md
// §3.4), and Set uses the value's position to decide whether to overwrite
// in place rather than cascade a fresh insert.
type Map[K any, V any, C base.Comparer[K]] struct {
	store *cola.Store[base.Pair[K, V], base.PairComparer[K, V, C]]
}

// NewMap creates an empty Map with the given level count (0 selects
// cola.DefaultMaxLevels).
func NewMap[K any, V any, C base.Comparer[K]](cmp C, maxLevels int) *Map[K, V, C] {
	pc := base.PairComparer[K, V, C]{Keys: cmp}
	return &Map[K, V, C]{store: cola.NewStore[base.Pair[K, V], base.PairComparer[K, V, C]](pc, maxLevels)}
}

// Capacity returns the largest entry count the map can hold without
// exhausting its levels.
func (m *Map[K, V, C]) Capacity() uint64 { return m.store.Capacity() }

// Len returns the number of entries currently stored.
func (m *Map[K, V, C]) Len() uint64 { return m.store.Len() }

func (m *Map[K, V, C]) find(key K) cola.FindResult {
	var zero V
	return m.store.Find(base.Pair[K, V]{Key: key, Value: zero})
}

// Add inserts a new (key, value) entry. It returns base.ErrDuplicateKey if
// key is already present (spec.md §4.2 add(k,v)).
func (m *Map[K, V, C]) Add(key K, value V) error {
	if m.find(key).Found {
		return base.ErrDuplicateKey
	}
	return m.store.Insert(base.Pair[K, V]{Key: key, Value: value})
}

// Set inserts key/value if key is absent, or overwrites the existing
// entry's value in place if key is present (spec.md §4.2 set(k,v)).
func (m *Map[K, V, C]) Set(key K, value V) error {
	res := m.find(key)
	if res.Found {
		return m.store.SetAt(res.Level, res.Offset, base.Pair[K, V]{Key: key, Value: value})
	}
	return m.store.Insert(base.Pair[K, V]{Key: key, Value: value})
}

// Get returns the value stored for key and whether it was present.
func (m *Map[K, V, C]) Get(key K) (V, bool) {
	res := m.find(key)
	if !res.Found {
		var zero V
		return zero, false
	}
	return m.store.Level(res.Level)[res.Offset].Value, true
}

// Contains reports whether key is present.
func (m *Map[K, V, C]) Contains(key K) bool {
	return m.find(key).Found
}

// Remove deletes key, reporting whether it was present.
func (m *Map[K, V, C]) Remove(key K) bool {
	return m.store.Remove(base.Pair[K, V]{Key: key})
}

// MapIterator walks a Map's entries in ascending key order.
type MapIterator[K any, V any, C base.Comparer[K]] struct {
	it *cola.Iterator[base.Pair[K, V], base.PairComparer[K, V, C]]
}

// Iterator returns a MapIterator over the map's current contents.
func (m *Map[K, V, C]) Iterator() *MapIterator[K, V, C] {
	return &MapIterator[K, V, C]{it: cola.NewIterator[base.Pair[K, V], base.PairComparer[K, V, C]](m.store)}
}

func (it *MapIterator[K, V, C]) First()      { it.it.First() }
func (it *MapIterator[K, V, C]) Last()       { it.it.Last() }
func (it *MapIterator[K, V, C]) Next()       { it.it.Next() }
func (it *MapIterator[K, V, C]) Previous()   { it.it.Previous() }
func (it *MapIterator[K, V, C]) Valid() bool { return it.it.Valid() }
func (it *MapIterator[K, V, C]) Key() K      { return it.it.Value().Key }
func (it *MapIterator[K, V, C]) Value() V    { return it.it.Value().Value }

// Iterate calls fn for every (key, value) entry in ascending key order,
// stopping early if fn returns false.
func (m *Map[K, V, C]) Iterate(fn func(K, V) bool) {
	it := m.Iterator()
	for it.First(); it.Valid(); it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

// MaxLevels returns the number of levels the underlying store was sized
// with, for callers that need to walk Level directly (e.g. the snapshot
// codec, which writes one run per full level).
func (m *Map[K, V, C]) MaxLevels() int { return m.store.MaxLevels() }

// SetCascadeListener registers fn to be called after every Add/Set that
// triggers a multi-level merge cascade.
func (m *Map[K, V, C]) SetCascadeListener(fn func(level, elements int)) {
	m.store.SetCascadeListener(fn)
}

// Level returns level i's entries verbatim: non-empty only if level i is
// currently full (spec.md §4.1).
func (m *Map[K, V, C]) Level(i int) []base.Pair[K, V] { return m.store.Level(i) }

// BulkLoad replaces the map's contents with entries, sorting them by key
// first unless ordered is true (spec.md §4.2 BulkLoad).
func (m *Map[K, V, C]) BulkLoad(entries []base.Pair[K, V], ordered bool) {
	m.store.BulkLoad(entries, ordered)
}

// LoadLevels replaces the map's levels verbatim: levels[i] becomes level
// i's run exactly as given, with no cascade merge or re-sort (spec.md §4.7
// snapshot load). Unlike BulkLoad, it does not require the concatenation
// of all levels to be one globally sorted sequence, only that each
// individual levels[i] is already sorted by key.
func (m *Map[K, V, C]) LoadLevels(levels [][]base.Pair[K, V]) {
	m.store.LoadLevels(levels)
}
