// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rangeset implements the range set and range dictionary containers
// of spec.md §4.3/§4.4: sorted collections of disjoint, half-open intervals
// [begin, end) stored atop the same COLA engine as orderedset, ordered by
// begin and merged on touch.
package rangeset

import "github.com/colakv/colakv/internal/base"

// Interval is a half-open range [Begin, End) with End > Begin.
type Interval[T any] struct {
	Begin, End T
}

// IntervalValue is an Interval carrying a piecewise-constant value,
// compared (for ordering purposes) by Begin only.
type IntervalValue[T any, V any] struct {
	Begin, End T
	Value      V
}

// Bounds is the smallest enclosing [Begin, End) over every stored interval.
type Bounds[T any] struct {
	Begin, End T
}

// intervalComparer orders Interval[T] by Begin.
type intervalComparer[T any, C base.Comparer[T]] struct {
	Keys C
}

func (c intervalComparer[T, C]) Compare(a, b Interval[T]) int {
	return c.Keys.Compare(a.Begin, b.Begin)
}

// intervalValueComparer orders IntervalValue[T,V] by Begin.
type intervalValueComparer[T any, V any, C base.Comparer[T]] struct {
	Keys C
}

func (c intervalValueComparer[T, V, C]) Compare(a, b IntervalValue[T, V]) int {
	return c.Keys.Compare(a.Begin, b.Begin)
}
