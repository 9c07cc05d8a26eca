// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(path string) ([]byte, error) { return os.ReadFile(path) }

func writeAll(path string, data []byte) error { return os.WriteFile(path, data, 0o644) }

func sampleLevels() [][]Entry {
	levels := make([][]Entry, MaxLevels)
	levels[0] = []Entry{{Key: []byte("a"), Value: []byte("1")}}
	levels[2] = []Entry{
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("c"), Value: []byte("3")},
	}
	return levels
}

// TestSaveLoadRoundTrip is the scenario from spec.md §8 invariant 5: saving
// and reloading a snapshot reproduces the same level contents.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.pndb")
	levels := sampleLevels()

	n, err := Save(context.Background(), path, levels, DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, n, int64(0))

	got, opts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.False(t, opts.VarintLengths)
	require.Equal(t, CompressionNone, opts.Compression)
	require.Equal(t, levels[0], got[0])
	require.Equal(t, levels[2], got[2])
	require.Empty(t, got[1])
}

func TestSaveLoadVarintLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.pndb")
	levels := sampleLevels()
	opts := Options{VarintLengths: true}

	_, err := Save(context.Background(), path, levels, opts)
	require.NoError(t, err)

	got, gotOpts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.True(t, gotOpts.VarintLengths)
	require.Equal(t, levels[0], got[0])
}

func TestSaveLoadSnappyCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.pndb")
	levels := sampleLevels()
	opts := Options{Compression: CompressionSnappy}

	_, err := Save(context.Background(), path, levels, opts)
	require.NoError(t, err)

	got, gotOpts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, CompressionSnappy, gotOpts.Compression)
	require.Equal(t, levels[2], got[2])
}

func TestSaveLoadZstdCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.pndb")
	levels := sampleLevels()
	opts := Options{Compression: CompressionZstd}

	_, err := Save(context.Background(), path, levels, opts)
	require.NoError(t, err)

	got, gotOpts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, CompressionZstd, gotOpts.Compression)
	require.Equal(t, levels[0], got[0])
	require.Equal(t, levels[2], got[2])
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.pndb")
	levels := sampleLevels()
	_, err := Save(context.Background(), path, levels, DefaultOptions())
	require.NoError(t, err)

	raw, err := readAll(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, writeAll(path, raw))

	_, _, err = Load(context.Background(), path)
	require.Error(t, err)
}

func TestSortUnordered(t *testing.T) {
	items := []Entry{
		{Key: []byte("d")}, {Key: []byte("b")}, {Key: []byte("a")}, {Key: []byte("c")},
	}
	sorted := SortUnordered(items, 2)
	require.Equal(t, []string{"a", "b", "c", "d"}, keysOf(sorted))
}

func keysOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e.Key)
	}
	return out
}
