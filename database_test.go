// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package colakv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/snapshot"
)

func sampleItems() []snapshot.Entry {
	return []snapshot.Entry{
		{Key: []byte("c"), Value: []byte("3")},
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}
}

func TestDatabaseBulkLoadGetScan(t *testing.T) {
	db := Open(Options{MaxLevels: 10})
	defer db.Close()

	db.BulkLoad(sampleItems(), false)

	v, ok := db.Get([]byte("b"))
	require.True(t, ok)
	require.Equal(t, []byte("2"), v)

	_, ok = db.Get([]byte("z"))
	require.False(t, ok)

	got := db.Scan([]byte("a"), []byte("c"))
	require.Len(t, got, 2)
	require.Equal(t, []byte("a"), got[0].Key)
	require.Equal(t, []byte("b"), got[1].Key)
}

func TestDatabaseSaveLoadSnapshotRoundTrip(t *testing.T) {
	db := Open(Options{MaxLevels: 10})
	defer db.Close()
	db.BulkLoad(sampleItems(), false)

	dir := t.TempDir()
	path := filepath.Join(dir, "snap.pndb")

	var saved, loaded bool
	db.opts.EventListener.SnapshotSaved = func(string, int64) { saved = true }
	db.opts.EventListener.SnapshotLoaded = func(string, int64) { loaded = true }

	n, err := db.SaveSnapshot(context.Background(), path, snapshot.DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, n, int64(0))
	require.True(t, saved)

	_, err = os.Stat(path)
	require.NoError(t, err)

	db2 := Open(Options{MaxLevels: 10})
	defer db2.Close()
	db2.opts.EventListener.SnapshotLoaded = func(string, int64) { loaded = true }

	_, err = db2.LoadSnapshot(context.Background(), path)
	require.NoError(t, err)
	require.True(t, loaded)

	v, ok := db2.Get([]byte("a"))
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)
	v, ok = db2.Get([]byte("c"))
	require.True(t, ok)
	require.Equal(t, []byte("3"), v)
}

func TestDatabaseTransactionalSurface(t *testing.T) {
	db := Open(Options{MaxLevels: 10})
	defer db.Close()

	wt := db.BeginWrite()
	wt.Set([]byte("x"), []byte("1"))
	_, err := wt.Commit()
	require.NoError(t, err)

	rt := db.BeginRead(nil)
	v, ok := rt.Get([]byte("x"))
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)
}

func TestDatabaseMetricsReflectsLevelOccupancy(t *testing.T) {
	db := Open(Options{MaxLevels: 10})
	defer db.Close()
	db.BulkLoad(sampleItems(), false)

	snap := db.Metrics()
	require.GreaterOrEqual(t, snap.Cascades, int64(0))
	// 3 == 0b11: level 1 holds two entries, level 0 holds one.
	require.Equal(t, []int{1, 2, 0, 0, 0, 0, 0, 0, 0, 0}, db.LevelOccupancy())
}

func TestDatabaseMetricsReflectsCascadesAndConflicts(t *testing.T) {
	db := Open(Options{MaxLevels: 10})
	defer db.Close()

	for i := 0; i < 4; i++ {
		wt := db.BeginWrite()
		wt.Set([]byte(fmt.Sprintf("k%d", i)), []byte("v"))
		_, err := wt.Commit()
		require.NoError(t, err)
	}
	snap := db.Metrics()
	require.Greater(t, snap.Cascades, int64(0))

	racer := db.BeginWrite()
	_, _ = racer.Get([]byte("k0"))

	winner := db.BeginWrite()
	winner.Set([]byte("k0"), []byte("v2"))
	_, err := winner.Commit()
	require.NoError(t, err)

	_, err = racer.Commit()
	require.ErrorIs(t, err, base.ErrConflict)

	snap = db.Metrics()
	require.Equal(t, int64(1), snap.Conflicts)
}
