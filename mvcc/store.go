// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/logtags"

	"github.com/colakv/colakv/internal/base"
)

// MetricsRecorder receives latency observations from a Store's insert,
// read, and commit paths. *internal/metrics.Recorder satisfies this
// structurally; it is expressed as an interface here so mvcc does not
// import internal/metrics directly (SPEC_FULL.md §4 Metrics snapshot).
type MetricsRecorder interface {
	RecordInsert(time.Duration)
	RecordFind(time.Duration)
	RecordCommit(time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) RecordInsert(time.Duration) {}
func (noopMetricsRecorder) RecordFind(time.Duration)   {}
func (noopMetricsRecorder) RecordCommit(time.Duration) {}

// Store is the versioned keyspace's single-writer, many-reader front end
// (spec.md §5): any number of ReadTxns may run concurrently against past
// versions, but only one WriteTxn may be committing at a time.
type Store struct {
	mu sync.Mutex

	keyspace       *Keyspace
	currentVersion uint64
	writes         *writeIndex

	listener base.EventListener
	metrics  MetricsRecorder
}

// NewStore creates an empty versioned keyspace. metrics may be nil, in
// which case insert/find/commit latencies are discarded.
func NewStore(maxLevels int, listener base.EventListener, metrics MetricsRecorder) *Store {
	listener.EnsureDefaults()
	if metrics == nil {
		metrics = noopMetricsRecorder{}
	}
	s := &Store{
		writes:   newWriteIndex(),
		listener: listener,
		metrics:  metrics,
	}
	s.keyspace = NewKeyspace(maxLevels, listener.CascadeFinished)
	return s
}

// CurrentVersion returns the version of the last committed transaction.
func (s *Store) CurrentVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentVersion
}

// BeginRead starts a snapshot at readVersion, or at the current version if
// readVersion is nil (spec.md §6 begin_read).
func (s *Store) BeginRead(readVersion *uint64) *ReadTxn {
	s.mu.Lock()
	rv := s.currentVersion
	if readVersion != nil {
		rv = *readVersion
	}
	s.mu.Unlock()
	return &ReadTxn{store: s, readVersion: rv, ctx: txnContext(context.Background(), rv)}
}

// BeginWrite starts a mutable transaction reading at the store's current
// version (spec.md §6 begin_write).
func (s *Store) BeginWrite() *WriteTxn {
	s.mu.Lock()
	rv := s.currentVersion
	s.mu.Unlock()
	return &WriteTxn{
		ReadTxn: ReadTxn{store: s, readVersion: rv, ctx: txnContext(context.Background(), rv)},
		reads:   newReadSet(),
	}
}

// txnContext attaches a read_version tag to ctx the way pebble's teacher
// attaches EventListener state, so structured log lines emitted during
// commit can be correlated back to the transaction that produced them
// (spec.md's ambient logging expansion).
func txnContext(ctx context.Context, readVersion uint64) context.Context {
	return logtags.AddTag(ctx, "read_version", readVersion)
}
