// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package colakv

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/colakv/colakv/internal/arena"
	"github.com/colakv/colakv/internal/base"
	metricspkg "github.com/colakv/colakv/internal/metrics"
	"github.com/colakv/colakv/mvcc"
	"github.com/colakv/colakv/orderedset"
	"github.com/colakv/colakv/snapshot"
)

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

// Database is the embedding application's entry point: it exposes the
// transactional MVCC surface (BeginRead/BeginWrite) and a direct bulk
// path (BulkLoad/SaveSnapshot/LoadSnapshot) that bypasses transactions
// entirely, the way pebble's own Ingest path writes sstables straight
// into the LSM without going through the normal write batch (spec.md §6,
// SPEC_FULL.md §4 supplemented features).
type Database struct {
	opts Options

	mu    sync.RWMutex
	table *orderedset.Map[[]byte, []byte, base.Bytes]

	txns *mvcc.Store

	heap    *arena.Heap
	pool    *arena.BuilderPool
	metrics *metricspkg.Recorder
	logger  base.Logger
}

// Open creates a Database with opts (zero-valued fields are defaulted and
// overridable via ENGINE_* environment variables).
func Open(opts Options) *Database {
	opts.EnsureDefaults()

	metrics := metricspkg.NewRecorder(prometheus.NewRegistry())

	// Chain the caller's EventListener (already defaulted to no-ops by
	// EnsureDefaults) with the database's own metrics recorder, so a
	// caller-supplied CascadeFinished/ConflictDetected still fires exactly
	// as before while Metrics() also reflects real cascade/conflict counts.
	nextCascadeFinished := opts.EventListener.CascadeFinished
	opts.EventListener.CascadeFinished = func(level, elements int) {
		metrics.RecordCascade()
		nextCascadeFinished(level, elements)
	}
	nextConflictDetected := opts.EventListener.ConflictDetected
	opts.EventListener.ConflictDetected = func(key []byte, readVersion, commitVersion uint64) {
		metrics.RecordConflict()
		nextConflictDetected(key, readVersion, commitVersion)
	}

	table := orderedset.NewMap[[]byte, []byte, base.Bytes](base.Bytes{}, opts.MaxLevels)
	table.SetCascadeListener(opts.EventListener.CascadeFinished)

	return &Database{
		opts:    opts,
		table:   table,
		txns:    mvcc.NewStore(opts.MaxLevels, opts.EventListener, metrics),
		heap:    arena.NewHeap(opts.PageSize),
		pool:    arena.NewBuilderPool(opts.BuilderPoolSize),
		metrics: metrics,
		logger:  opts.Logger,
	}
}

// Close releases the database's arena. It does not flush anything to
// disk; callers that want durability must call SaveSnapshot first.
func (d *Database) Close() {
	d.heap.Dispose()
}

// Metrics returns a point-in-time snapshot of the database's counters,
// gauges, and latency histograms.
func (d *Database) Metrics() metricspkg.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := 0; i < d.table.MaxLevels(); i++ {
		d.metrics.SetLevelOccupancy(i, len(d.table.Level(i)))
	}
	return d.metrics.Snapshot()
}

// LevelOccupancy returns the element count of each of the bulk-loaded
// table's levels, in level order, for callers (e.g. the `stats` CLI
// subcommand) that want to graph or inspect the COLA's fill pattern
// directly rather than through the prometheus gauge vector.
func (d *Database) LevelOccupancy() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]int, d.table.MaxLevels())
	for i := range out {
		out[i] = len(d.table.Level(i))
	}
	return out
}

// BeginRead starts a snapshot read transaction (spec.md §6 begin_read).
func (d *Database) BeginRead(readVersion *uint64) *mvcc.ReadTxn {
	return d.txns.BeginRead(readVersion)
}

// BeginWrite starts a mutable transaction (spec.md §6 begin_write).
func (d *Database) BeginWrite() *mvcc.WriteTxn {
	return d.txns.BeginWrite()
}

// Get is a direct, non-transactional point lookup against the bulk-loaded
// table (used by the `get` CLI subcommand).
func (d *Database) Get(key []byte) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	start := time.Now()
	v, ok := d.table.Get(key)
	d.metrics.RecordFind(time.Since(start))
	return v, ok
}

// Scan returns every entry with key in [begin, end) from the bulk-loaded
// table, in ascending key order (used by the `scan` CLI subcommand). Each
// returned key and value is staged in a builder loaned from the database's
// arena.BuilderPool and then copied out into its own freshly allocated
// slice, so every row still costs one allocation per field.
func (d *Database) Scan(begin, end []byte) []snapshot.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []snapshot.Entry
	d.table.Iterate(func(k []byte, v []byte) bool {
		if end != nil && base.Bytes{}.Compare(k, end) >= 0 {
			return false
		}
		if begin != nil && base.Bytes{}.Compare(k, begin) < 0 {
			return true
		}
		out = append(out, snapshot.Entry{Key: d.copyBytes(k), Value: d.copyBytes(v)})
		return true
	})
	return out
}

// copyBytes returns an owned copy of p, composed through a builder on loan
// from d.pool. The builder's own backing array is returned to the pool (and
// may be reused by the next caller) before copyBytes returns, so the result
// is always a fresh, independently-owned slice.
func (d *Database) copyBytes(p []byte) []byte {
	h := d.pool.Use()
	h.Builder.Set(p)
	out := append([]byte(nil), h.Builder.ToBytes()...)
	h.Release()
	return out
}

// BulkLoad replaces the bulk-loaded table's contents with items (spec.md §6
// Database.bulk_load). Every key and value is memoized into the database's
// arena.Heap: the caller's backing slices may be reused or discarded
// immediately after BulkLoad returns, the way pebble's own Ingest takes
// ownership of the sstable bytes it's handed instead of aliasing the
// caller's buffer.
func (d *Database) BulkLoad(items []snapshot.Entry, ordered bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pairs := make([]base.Pair[[]byte, []byte], 0, len(items))
	for _, e := range items {
		key, err := d.heap.Memoize(e.Key)
		if err != nil {
			d.logger.Errorf("colakv: bulk-load memoize key failed: %v", err)
			continue
		}
		value, err := d.heap.Memoize(e.Value)
		if err != nil {
			d.logger.Errorf("colakv: bulk-load memoize value failed: %v", err)
			continue
		}
		pairs = append(pairs, base.Pair[[]byte, []byte]{Key: key.Bytes(), Value: value.Bytes()})
	}
	d.table.BulkLoad(pairs, ordered)
}

// SaveSnapshot writes the bulk-loaded table to path as a .pndb file
// (spec.md §6 Database.save_snapshot).
func (d *Database) SaveSnapshot(ctx context.Context, path string, opts snapshot.Options) (int64, error) {
	d.mu.RLock()
	levels := make([][]snapshot.Entry, d.table.MaxLevels())
	for i := range levels {
		pairs := d.table.Level(i)
		if len(pairs) == 0 {
			continue
		}
		run := make([]snapshot.Entry, len(pairs))
		for j, p := range pairs {
			run[j] = snapshot.Entry{Key: p.Key, Value: p.Value}
		}
		levels[i] = run
	}
	d.mu.RUnlock()

	n, err := snapshot.Save(ctx, path, levels, opts)
	if err != nil {
		return 0, err
	}
	d.opts.EventListener.SnapshotSaved(path, n)
	return n, nil
}

// LoadSnapshot replaces the bulk-loaded table with the contents of the
// .pndb file at path, placing each on-disk run directly as a full level
// without re-sorting (spec.md §6 Database.load_snapshot, §4.7).
func (d *Database) LoadSnapshot(ctx context.Context, path string) (int64, error) {
	levels, _, err := snapshot.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	newHeap := arena.NewHeap(d.opts.PageSize)
	newTable := orderedset.NewMap[[]byte, []byte, base.Bytes](base.Bytes{}, d.opts.MaxLevels)
	levelPairs := make([][]base.Pair[[]byte, []byte], len(levels))
	var totalBytes int64
	for i, level := range levels {
		if len(level) == 0 {
			continue
		}
		run := make([]base.Pair[[]byte, []byte], len(level))
		for j, e := range level {
			key, kerr := newHeap.Memoize(e.Key)
			value, verr := newHeap.Memoize(e.Value)
			if kerr != nil || verr != nil {
				return 0, errors.WithMessage(firstErr(kerr, verr), "colakv: loading snapshot")
			}
			run[j] = base.Pair[[]byte, []byte]{Key: key.Bytes(), Value: value.Bytes()}
			totalBytes += int64(len(e.Key) + len(e.Value))
		}
		levelPairs[i] = run
	}
	newTable.LoadLevels(levelPairs)
	d.heap.Dispose()
	d.heap = newHeap
	d.table = newTable

	d.opts.EventListener.SnapshotLoaded(path, totalBytes)
	return totalBytes, nil
}
