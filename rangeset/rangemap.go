// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rangeset

import (
	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/internal/cola"
)

// RangeMap is a piecewise-constant map from T to V: a sorted list of
// disjoint maximal intervals, merged on touch when two neighbours carry an
// equal value (spec.md §3.5, §4.4).
type RangeMap[T any, V any, C base.Comparer[T]] struct {
	cmp     C
	valueEq func(a, b V) bool
	store   *cola.Store[IntervalValue[T, V], intervalValueComparer[T, V, C]]
	bounds  Bounds[T]
}

// NewRangeMap creates an empty RangeMap. valueEq decides whether two
// adjacent intervals' values are equal for the purpose of the
// adjacency-merge invariant (spec.md §3.5).
func NewRangeMap[T any, V any, C base.Comparer[T]](cmp C, valueEq func(a, b V) bool, maxLevels int) *RangeMap[T, V, C] {
	ic := intervalValueComparer[T, V, C]{Keys: cmp}
	return &RangeMap[T, V, C]{
		cmp:     cmp,
		valueEq: valueEq,
		store:   cola.NewStore[IntervalValue[T, V], intervalValueComparer[T, V, C]](ic, maxLevels),
	}
}

// Len returns the number of disjoint intervals currently stored.
func (r *RangeMap[T, V, C]) Len() uint64 { return r.store.Len() }

// Bounds returns [min begin, max end) over every stored interval, or the
// zero Bounds when empty.
func (r *RangeMap[T, V, C]) Bounds() Bounds[T] { return r.bounds }

// Intervals returns every stored interval in ascending order of Begin.
func (r *RangeMap[T, V, C]) Intervals() []IntervalValue[T, V] {
	it := cola.NewIterator[IntervalValue[T, V], intervalValueComparer[T, V, C]](r.store)
	out := make([]IntervalValue[T, V], 0, r.store.Len())
	for it.First(); it.Valid(); it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// At returns the value covering x, if any.
func (r *RangeMap[T, V, C]) At(x T) (V, bool) {
	it := cola.NewIterator[IntervalValue[T, V], intervalValueComparer[T, V, C]](r.store)
	it.SeekLE(IntervalValue[T, V]{Begin: x})
	if !it.Valid() {
		var zero V
		return zero, false
	}
	iv := it.Value()
	if r.cmp.Compare(iv.Begin, x) <= 0 && r.cmp.Compare(x, iv.End) < 0 {
		return iv.Value, true
	}
	var zero V
	return zero, false
}

func lt[T any, C base.Comparer[T]](cmp C, a, b T) bool { return cmp.Compare(a, b) < 0 }
func le[T any, C base.Comparer[T]](cmp C, a, b T) bool { return cmp.Compare(a, b) <= 0 }
func gt[T any, C base.Comparer[T]](cmp C, a, b T) bool { return cmp.Compare(a, b) > 0 }
func ge[T any, C base.Comparer[T]](cmp C, a, b T) bool { return cmp.Compare(a, b) >= 0 }
func eq[T any, C base.Comparer[T]](cmp C, a, b T) bool { return cmp.Compare(a, b) == 0 }

// Mark assigns v to [b, e), trimming or dropping anything it overlaps and
// merging with any neighbour that ends up touching it with an equal value
// (spec.md §4.4 mark(b,e,v)).
func (r *RangeMap[T, V, C]) Mark(b, e T, v V) {
	newBegin, newEnd := b, e
	var keep []IntervalValue[T, V]

	for _, iv := range r.Intervals() {
		switch {
		case le[T, C](r.cmp, iv.End, b) || ge[T, C](r.cmp, iv.Begin, e):
			// Entirely outside [b, e): left of b or right of e or touching
			// without overlap, handled below by the adjacency-merge pass.
			keep = append(keep, iv)

		case le[T, C](r.cmp, b, iv.Begin) && le[T, C](r.cmp, iv.End, e):
			// Fully covered by [b, e): dropped unconditionally.

		case lt[T, C](r.cmp, iv.Begin, b) && le[T, C](r.cmp, iv.End, e):
			// Left-partial: iv spans across b.
			if r.valueEq(iv.Value, v) {
				newBegin = iv.Begin
			} else {
				keep = append(keep, IntervalValue[T, V]{Begin: iv.Begin, End: b, Value: iv.Value})
			}

		case ge[T, C](r.cmp, iv.Begin, b) && gt[T, C](r.cmp, iv.End, e):
			// Right-partial: iv spans across e.
			if r.valueEq(iv.Value, v) {
				newEnd = iv.End
			} else {
				keep = append(keep, IntervalValue[T, V]{Begin: e, End: iv.End, Value: iv.Value})
			}

		default:
			// iv strictly contains [b, e) on both sides.
			if r.valueEq(iv.Value, v) {
				newBegin, newEnd = iv.Begin, iv.End
			} else {
				keep = append(keep, IntervalValue[T, V]{Begin: iv.Begin, End: b, Value: iv.Value})
				keep = append(keep, IntervalValue[T, V]{Begin: e, End: iv.End, Value: iv.Value})
			}
		}
	}

	// Adjacency-merge pass: a kept interval that now touches [newBegin,
	// newEnd) with an equal value is absorbed too.
	var finalKeep []IntervalValue[T, V]
	for _, iv := range keep {
		switch {
		case eq[T, C](r.cmp, iv.End, newBegin) && r.valueEq(iv.Value, v):
			newBegin = iv.Begin
		case eq[T, C](r.cmp, iv.Begin, newEnd) && r.valueEq(iv.Value, v):
			newEnd = iv.End
		default:
			finalKeep = append(finalKeep, iv)
		}
	}

	r.rebuild(append(finalKeep, IntervalValue[T, V]{Begin: newBegin, End: newEnd, Value: v}))
}

// Remove clears the contribution of [b, e) on the map. Every interval
// strictly right of e has shift applied to its endpoints and its value
// recombined with operand via combine(existing, operand) (spec.md §4.4
// remove(b,e,shift,combine)): this is the operation that lets the range
// dictionary serve as a renumbering allocator bitmap after a physical
// delete.
func (r *RangeMap[T, V, C]) Remove(b, e T, shift func(T) T, operand V, combine func(existing, operand V) V) {
	var result []IntervalValue[T, V]

	for _, iv := range r.Intervals() {
		switch {
		case le[T, C](r.cmp, iv.End, b):
			// Entirely left of the window: untouched.
			result = append(result, iv)

		case ge[T, C](r.cmp, iv.Begin, e):
			// Entirely right of the window: shift and recombine.
			result = append(result, IntervalValue[T, V]{
				Begin: shift(iv.Begin),
				End:   shift(iv.End),
				Value: combine(iv.Value, operand),
			})

		default:
			// Overlaps the window: clear the covered part, keep and
			// shift/recombine whatever lies past e.
			if lt[T, C](r.cmp, iv.Begin, b) {
				result = append(result, IntervalValue[T, V]{Begin: iv.Begin, End: b, Value: iv.Value})
			}
			if gt[T, C](r.cmp, iv.End, e) {
				result = append(result, IntervalValue[T, V]{
					Begin: shift(e),
					End:   shift(iv.End),
					Value: combine(iv.Value, operand),
				})
			}
		}
	}

	r.rebuild(result)
}

// rebuild replaces the map's contents with ivs, merging any adjacent pair
// that touches with an equal value, and recomputes Bounds.
func (r *RangeMap[T, V, C]) rebuild(ivs []IntervalValue[T, V]) {
	sortIntervalValues[T, V, C](r.cmp, ivs)

	merged := make([]IntervalValue[T, V], 0, len(ivs))
	for _, iv := range ivs {
		if n := len(merged); n > 0 && eq[T, C](r.cmp, merged[n-1].End, iv.Begin) && r.valueEq(merged[n-1].Value, iv.Value) {
			merged[n-1].End = iv.End
			continue
		}
		merged = append(merged, iv)
	}

	r.store.BulkLoad(merged, true)

	if len(merged) == 0 {
		var zero Bounds[T]
		r.bounds = zero
		return
	}
	beginB, endB := merged[0].Begin, merged[0].End
	for _, iv := range merged[1:] {
		if lt[T, C](r.cmp, iv.Begin, beginB) {
			beginB = iv.Begin
		}
		if gt[T, C](r.cmp, iv.End, endB) {
			endB = iv.End
		}
	}
	r.bounds = Bounds[T]{Begin: beginB, End: endB}
}

func sortIntervalValues[T any, V any, C base.Comparer[T]](cmp C, ivs []IntervalValue[T, V]) {
	// Insertion sort: the lists rebuild operates on are small (one mark or
	// remove call's worth of fragments plus whatever survived), and this
	// avoids pulling sort.Slice's closure allocation on the hot path.
	for i := 1; i < len(ivs); i++ {
		for j := i; j > 0 && lt[T, C](cmp, ivs[j].Begin, ivs[j-1].Begin); j-- {
			ivs[j], ivs[j-1] = ivs[j-1], ivs[j]
		}
	}
}
