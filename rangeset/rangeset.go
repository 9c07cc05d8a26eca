// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rangeset

import (
	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/internal/cola"
)

// RangeSet stores a set of disjoint, ordered, half-open intervals over T,
// merging neighbours on touch (spec.md §3.5, §4.3).
type RangeSet[T any, C base.Comparer[T]] struct {
	cmp    C
	store  *cola.Store[Interval[T], intervalComparer[T, C]]
	empty  bool
	bounds Bounds[T]
}

// NewRangeSet creates an empty RangeSet.
func NewRangeSet[T any, C base.Comparer[T]](cmp C, maxLevels int) *RangeSet[T, C] {
	ic := intervalComparer[T, C]{Keys: cmp}
	return &RangeSet[T, C]{
		cmp:   cmp,
		store: cola.NewStore[Interval[T], intervalComparer[T, C]](ic, maxLevels),
		empty: true,
	}
}

// Len returns the number of disjoint intervals currently stored.
func (r *RangeSet[T, C]) Len() uint64 { return r.store.Len() }

// Bounds returns [min begin, max end) over every stored interval, or the
// zero Bounds when empty (spec.md §3.5).
func (r *RangeSet[T, C]) Bounds() Bounds[T] {
	return r.bounds
}

// Intervals returns every stored interval in ascending order of Begin.
func (r *RangeSet[T, C]) Intervals() []Interval[T] {
	it := cola.NewIterator[Interval[T], intervalComparer[T, C]](r.store)
	out := make([]Interval[T], 0, r.store.Len())
	for it.First(); it.Valid(); it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// overlapsOrTouches reports whether iv intersects or abuts [b, e): this
// single condition handles both genuine overlap and the end1==begin2
// adjacency-merge rule in one pass, because a range set merges on touch
// unconditionally (unlike a range dictionary, which only merges touching
// neighbours of equal value).
func overlapsOrTouches[T any, C base.Comparer[T]](cmp C, iv Interval[T], b, e T) bool {
	return cmp.Compare(iv.Begin, e) <= 0 && cmp.Compare(iv.End, b) >= 0
}

// Mark adds [b, e) to the set, merging with every interval it overlaps or
// touches (spec.md §4.3 mark(b,e)).
func (r *RangeSet[T, C]) Mark(b, e T) {
	newBegin, newEnd := b, e
	var toRemove []Interval[T]

	for _, iv := range r.Intervals() {
		if !overlapsOrTouches(r.cmp, iv, b, e) {
			continue
		}
		toRemove = append(toRemove, iv)
		if r.cmp.Compare(iv.Begin, newBegin) < 0 {
			newBegin = iv.Begin
		}
		if r.cmp.Compare(iv.End, newEnd) > 0 {
			newEnd = iv.End
		}
	}
	for _, iv := range toRemove {
		r.store.Remove(iv)
	}
	_ = r.store.Insert(Interval[T]{Begin: newBegin, End: newEnd})
	r.recomputeBounds()
}

// Contains reports whether x falls within some stored interval.
func (r *RangeSet[T, C]) Contains(x T) bool {
	it := cola.NewIterator[Interval[T], intervalComparer[T, C]](r.store)
	it.SeekLE(Interval[T]{Begin: x})
	if !it.Valid() {
		return false
	}
	iv := it.Value()
	return r.cmp.Compare(iv.Begin, x) <= 0 && r.cmp.Compare(x, iv.End) < 0
}

func (r *RangeSet[T, C]) recomputeBounds() {
	ivs := r.Intervals()
	if len(ivs) == 0 {
		r.empty = true
		var zero Bounds[T]
		r.bounds = zero
		return
	}
	r.empty = false
	b := ivs[0].Begin
	e := ivs[0].End
	for _, iv := range ivs[1:] {
		if r.cmp.Compare(iv.Begin, b) < 0 {
			b = iv.Begin
		}
		if r.cmp.Compare(iv.End, e) > 0 {
			e = iv.End
		}
	}
	r.bounds = Bounds[T]{Begin: b, End: e}
}
