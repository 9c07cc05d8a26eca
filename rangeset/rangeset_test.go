// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rangeset

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colakv/colakv/internal/base"
)

func boolEq(a, b bool) bool { return a == b }

func newIntRangeSet(maxLevels int) *RangeSet[int, base.Natural[int]] {
	return NewRangeSet[int, base.Natural[int]](base.Natural[int]{}, maxLevels)
}

func TestRangeSetMergeOnTouch(t *testing.T) {
	r := newIntRangeSet(8)
	r.Mark(0, 2)
	r.Mark(2, 4)
	require.Equal(t, uint64(1), r.Len())
	require.Equal(t, []Interval[int]{{Begin: 0, End: 4}}, r.Intervals())
}

func TestRangeSetMergeOnOverlap(t *testing.T) {
	r := newIntRangeSet(8)
	r.Mark(0, 5)
	r.Mark(3, 8)
	require.Equal(t, []Interval[int]{{Begin: 0, End: 8}}, r.Intervals())
}

func TestRangeSetDisjointStaysDisjoint(t *testing.T) {
	r := newIntRangeSet(8)
	r.Mark(0, 2)
	r.Mark(5, 7)
	require.Equal(t, []Interval[int]{{Begin: 0, End: 2}, {Begin: 5, End: 7}}, r.Intervals())
}

func TestRangeSetBounds(t *testing.T) {
	r := newIntRangeSet(8)
	require.Equal(t, Bounds[int]{}, r.Bounds())
	r.Mark(10, 20)
	r.Mark(-5, -2)
	require.Equal(t, Bounds[int]{Begin: -5, End: 20}, r.Bounds())
}

func TestRangeSetContains(t *testing.T) {
	r := newIntRangeSet(8)
	r.Mark(10, 20)
	require.True(t, r.Contains(10))
	require.True(t, r.Contains(19))
	require.False(t, r.Contains(20))
	require.False(t, r.Contains(9))
}

// TestRangeSetAgainstReference is scenario S1 from spec.md §8, specialized
// to the undifferentiated range set: 1000 random mark() calls checked
// against a flat boolean reference array.
func TestRangeSetAgainstReference(t *testing.T) {
	const domain = 200
	rng := rand.New(rand.NewSource(42))
	r := newIntRangeSet(16)
	var reference [domain]bool

	for i := 0; i < 1000; i++ {
		b := rng.Intn(domain - 1)
		e := b + 1 + rng.Intn(domain-b-1)
		r.Mark(b, e)
		for x := b; x < e; x++ {
			reference[x] = true
		}
	}

	for x := 0; x < domain; x++ {
		require.Equal(t, reference[x], r.Contains(x), "x=%d", x)
	}

	// Adjacent intervals never touch: the merge-on-touch invariant should
	// have collapsed them all.
	ivs := r.Intervals()
	for i := 1; i < len(ivs); i++ {
		require.Less(t, ivs[i-1].End, ivs[i].Begin)
	}
}

func intValueEq(a, b int) bool { return a == b }

func newIntRangeMap(maxLevels int) *RangeMap[int, int, base.Natural[int]] {
	return NewRangeMap[int, int, base.Natural[int]](base.Natural[int]{}, intValueEq, maxLevels)
}

// TestRangeMapSplit is scenario S3 from spec.md §8: mark(0,10,'A') then
// mark(4,5,'B') splits the original interval into three.
func TestRangeMapSplit(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(0, 10, 1)
	r.Mark(4, 5, 2)

	require.Equal(t, []IntervalValue[int, int]{
		{Begin: 0, End: 4, Value: 1},
		{Begin: 4, End: 5, Value: 2},
		{Begin: 5, End: 10, Value: 1},
	}, r.Intervals())
}

// TestRangeMapMergeOnEqualValue is scenario S4 from spec.md §8: marking two
// disjoint same-valued intervals and then the gap between them collapses
// all three into one.
func TestRangeMapMergeOnEqualValue(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(0, 1, 1)
	r.Mark(2, 3, 1)
	r.Mark(1, 2, 1)

	require.Equal(t, []IntervalValue[int, int]{{Begin: 0, End: 3, Value: 1}}, r.Intervals())
}

func TestRangeMapNoMergeOnDifferentValue(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(0, 1, 1)
	r.Mark(1, 2, 2)

	require.Equal(t, []IntervalValue[int, int]{
		{Begin: 0, End: 1, Value: 1},
		{Begin: 1, End: 2, Value: 2},
	}, r.Intervals())
}

func TestRangeMapAt(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(10, 20, 1)

	v, ok := r.At(15)
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = r.At(25)
	require.False(t, ok)
}

func TestRangeMapOverwritesFullyCoveredInterval(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(0, 10, 1)
	r.Mark(0, 10, 2)

	require.Equal(t, []IntervalValue[int, int]{{Begin: 0, End: 10, Value: 2}}, r.Intervals())
}

func TestRangeMapRemoveShiftsAndCombines(t *testing.T) {
	r := newIntRangeMap(8)
	r.Mark(0, 10, 1)
	r.Mark(20, 30, 2)

	shift := func(x int) int { return x - 10 }
	combine := func(existing, operand int) int { return existing + operand }
	r.Remove(10, 20, shift, 100, combine)

	require.Equal(t, []IntervalValue[int, int]{
		{Begin: 0, End: 10, Value: 1},
		{Begin: 10, End: 20, Value: 102},
	}, r.Intervals())
}

// TestRangeMapAgainstReference is a reference-array version of scenario S1
// specialized to the range dictionary: random marks checked against a flat
// array of "current value at x".
func TestRangeMapAgainstReference(t *testing.T) {
	const domain = 100
	rng := rand.New(rand.NewSource(7))
	r := newIntRangeMap(16)
	reference := make([]int, domain)
	for i := range reference {
		reference[i] = -1
	}

	for i := 0; i < 500; i++ {
		b := rng.Intn(domain - 1)
		e := b + 1 + rng.Intn(domain-b-1)
		val := rng.Intn(3)
		r.Mark(b, e, val)
		for x := b; x < e; x++ {
			reference[x] = val
		}
	}

	for x := 0; x < domain; x++ {
		got, ok := r.At(x)
		if reference[x] == -1 {
			require.False(t, ok, "x=%d", x)
			continue
		}
		require.True(t, ok, "x=%d", x)
		require.Equal(t, reference[x], got, "x=%d", x)
	}

	ivs := r.Intervals()
	require.True(t, sort.SliceIsSorted(ivs, func(i, j int) bool { return ivs[i].Begin < ivs[j].Begin }))
	for i := 1; i < len(ivs); i++ {
		if ivs[i-1].End == ivs[i].Begin {
			require.False(t, intValueEq(ivs[i-1].Value, ivs[i].Value), "adjacent equal-value intervals should have merged at x=%d", ivs[i].Begin)
		}
	}
}
