// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package orderedset provides the ordered set and ordered dictionary
// specializations of the COLA engine (spec.md §4.2).
package orderedset

import (
	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/internal/cola"
)

// Set is an ordered collection of unique elements of type T.
type Set[T any, C base.Comparer[T]] struct {
	store *cola.Store[T, C]
}

// NewSet creates an empty Set with the given level count (0 selects
// cola.DefaultMaxLevels).
func NewSet[T any, C base.Comparer[T]](cmp C, maxLevels int) *Set[T, C] {
	return &Set[T, C]{store: cola.NewStore[T, C](cmp, maxLevels)}
}

// NewSetWithCapacity creates an empty Set sized so it can hold at least
// requestedCapacity elements: the smallest L with 2^L-1 >= requestedCapacity
// is chosen as the level count (spec.md §4.2, observable via Capacity).
func NewSetWithCapacity[T any, C base.Comparer[T]](cmp C, requestedCapacity uint64) *Set[T, C] {
	return NewSet[T, C](cmp, levelsForCapacity(requestedCapacity))
}

func levelsForCapacity(requested uint64) int {
	l := 1
	for (uint64(1)<<uint(l))-1 < requested {
		l++
	}
	return l
}

// Capacity returns the largest element count the set can hold without
// exhausting its levels: 2^L-1 for L = MaxLevels.
func (s *Set[T, C]) Capacity() uint64 { return s.store.Capacity() }

// Len returns the number of elements currently stored.
func (s *Set[T, C]) Len() uint64 { return s.store.Len() }

// Insert adds x to the set. It returns base.ErrDuplicateKey if x is already
// present (spec.md §4.2).
func (s *Set[T, C]) Insert(x T) error {
	if s.store.Find(x).Found {
		return base.ErrDuplicateKey
	}
	return s.store.Insert(x)
}

// Contains reports whether x is present.
func (s *Set[T, C]) Contains(x T) bool {
	return s.store.Find(x).Found
}

// Remove deletes x, reporting whether it was present.
func (s *Set[T, C]) Remove(x T) bool {
	return s.store.Remove(x)
}

// Iterator returns an iterator over the set's current contents, in
// ascending order.
func (s *Set[T, C]) Iterator() *cola.Iterator[T, C] {
	return cola.NewIterator[T, C](s.store)
}

// Iterate calls fn for every element in ascending order, stopping early if
// fn returns false.
func (s *Set[T, C]) Iterate(fn func(T) bool) {
	it := s.Iterator()
	for it.First(); it.Valid(); it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}
