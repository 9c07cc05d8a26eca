// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package orderedset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colakv/colakv/internal/base"
)

// TestDuplicateSafeInsert is scenario S2 from spec.md §8.
func TestDuplicateSafeInsert(t *testing.T) {
	s := NewSet[int, base.Natural[int]](base.Natural[int]{}, 8)

	input := []int{5, 2, 8, 2, 5, 9}
	var dupErrs int
	for _, v := range input {
		if err := s.Insert(v); err != nil {
			require.ErrorIs(t, err, base.ErrDuplicateKey)
			dupErrs++
		}
	}
	require.Equal(t, 2, dupErrs)

	var got []int
	s.Iterate(func(v int) bool {
		got = append(got, v)
		return true
	})
	require.Equal(t, []int{2, 5, 8, 9}, got)

	require.True(t, s.Contains(2))
	require.False(t, s.Contains(7))
}

func TestSetCapacitySizing(t *testing.T) {
	s := NewSetWithCapacity[int, base.Natural[int]](base.Natural[int]{}, 100)
	// smallest 2^L-1 >= 100 is 2^7-1 = 127.
	require.Equal(t, uint64(127), s.Capacity())
}

func TestMapAddSetGet(t *testing.T) {
	m := NewMap[string, int, base.Natural[string]](base.Natural[string]{}, 8)

	require.NoError(t, m.Add("a", 1))
	require.ErrorIs(t, m.Add("a", 2), base.ErrDuplicateKey)

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.NoError(t, m.Set("a", 42))
	v, ok = m.Get("a")
	require.True(t, ok)
	require.Equal(t, 42, v)

	require.NoError(t, m.Set("b", 7))
	v, ok = m.Get("b")
	require.True(t, ok)
	require.Equal(t, 7, v)

	require.True(t, m.Remove("a"))
	require.False(t, m.Contains("a"))
}

func TestMapIteratesInKeyOrder(t *testing.T) {
	m := NewMap[int, string, base.Natural[int]](base.Natural[int]{}, 8)
	for _, k := range []int{5, 1, 3, 2, 4} {
		require.NoError(t, m.Add(k, "v"))
	}
	var keys []int
	m.Iterate(func(k int, v string) bool {
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []int{1, 2, 3, 4, 5}, keys)
}
