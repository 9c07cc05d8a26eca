// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct {
		in   uint64
		want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1023, 1024},
		{1024, 1024},
	}
	for _, c := range cases {
		got := NextPowerOfTwo(c.in)
		require.Equalf(t, c.want, got, "NextPowerOfTwo(%d)", c.in)
		require.GreaterOrEqual(t, got, c.in)
	}
}

func TestHashBytesStable(t *testing.T) {
	h1 := HashBytes([]byte("hello world"))
	h2 := HashBytes([]byte("hello world"))
	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, HashBytes([]byte("hello worlD")))
	// FNV-1a 32-bit offset basis hash of the empty string is the offset
	// basis itself.
	require.Equal(t, uint32(2166136261), HashBytes(nil))
}

func TestHeapAllocateAndMemoize(t *testing.T) {
	h := NewHeap(64)

	s1, err := h.Memoize([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, "alpha", s1.String())

	s2, err := h.Memoize([]byte("beta"))
	require.NoError(t, err)
	require.Equal(t, "beta", s2.String())

	// Both slices remain independently readable after further allocation.
	require.Equal(t, "alpha", s1.String())
	require.True(t, s1.Compare(s2) < 0)
}

func TestHeapLargeAllocationGetsPrivatePage(t *testing.T) {
	h := NewHeap(64)
	before := len(h.pages)

	big := make([]byte, 100) // > pageSize/4 == 16
	s, err := h.Memoize(big)
	require.NoError(t, err)
	require.Equal(t, 100, s.Len())
	require.Greater(t, len(h.pages), before)
}

func TestHeapDisposeRejectsFurtherUse(t *testing.T) {
	h := NewHeap(64)
	h.Dispose()
	_, err := h.Memoize([]byte("x"))
	require.Error(t, err)
}

func TestBuilderGrowAndSwap(t *testing.T) {
	b := NewBuilder()
	b.Append([]byte("hello"))
	b.Append([]byte(" world"))
	require.Equal(t, "hello world", string(b.ToBytes()))

	var other Builder
	b.Swap(&other)
	require.Equal(t, "hello world", string(other.ToBytes()))
	require.Equal(t, 0, b.Len())
}

func TestBuilderResize(t *testing.T) {
	b := NewBuilder()
	b.Append([]byte("ab"))
	b.Resize(5, 'x')
	require.Equal(t, "abxxx", string(b.ToBytes()))
	b.Resize(2, 'x')
	require.Equal(t, "ab", string(b.ToBytes()))
}

func TestBuilderPoolCounters(t *testing.T) {
	p := NewBuilderPool(2)
	h1 := p.Use()
	h1.Builder.Append([]byte("data"))
	require.Positive(t, p.LoanedBytes())
	require.Zero(t, p.ParkedBytes())

	h1.Release()
	require.Zero(t, p.LoanedBytes())
	require.Positive(t, p.ParkedBytes())

	// Releasing twice is a no-op.
	h1.Release()
	require.Positive(t, p.ParkedBytes())
}

func TestBuilderPoolDiscardsBeyondCapacity(t *testing.T) {
	p := NewBuilderPool(1)
	h1 := p.Use()
	h2 := p.Use()
	h1.Release()
	h2.Release()
	require.LessOrEqual(t, len(p.free), 1)
}
