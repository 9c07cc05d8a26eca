// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package metrics aggregates prometheus counters/gauges and HdrHistogram
// latency distributions into a single Metrics snapshot, mirroring pebble's
// own pebble.Metrics aggregate (SPEC_FULL.md §4 supplemented feature).
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wires the counters, gauges, and latency histograms that
// Database and its mvcc.Store report through: point lookups, versioned
// inserts and commits, merge cascades, conflicts, and level occupancy.
// Bulk loads and snapshot save/load record nothing here.
type Recorder struct {
	cascades  prometheus.Counter
	conflicts prometheus.Counter

	cascadeCount  int64
	conflictCount int64

	levelOccup *prometheus.GaugeVec
	insertHist *hdrhistogram.Histogram
	findHist   *hdrhistogram.Histogram
	commitHist *hdrhistogram.Histogram
}

// NewRecorder creates a Recorder registered against reg. Passing a fresh
// prometheus.NewRegistry() (rather than the global DefaultRegisterer) keeps
// multiple Database instances in a test process from colliding on metric
// names, the way the teacher's own metrics are scoped per-DB rather than
// process-global.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cascades: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colakv_cola_cascades_total",
			Help: "Number of multi-level merge cascades triggered by Insert.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colakv_mvcc_conflicts_total",
			Help: "Number of write transactions rejected with a conflict.",
		}),
		levelOccup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "colakv_cola_level_occupancy",
			Help: "Element count of each COLA level, by level index.",
		}, []string{"level"}),
		insertHist: hdrhistogram.New(1, int64(time.Second), 3),
		findHist:   hdrhistogram.New(1, int64(time.Second), 3),
		commitHist: hdrhistogram.New(1, int64(time.Second), 3),
	}
	reg.MustRegister(r.cascades, r.conflicts, r.levelOccup)
	return r
}

// RecordCascade increments the cascade counter, invoked from
// EventListener.CascadeFinished.
func (r *Recorder) RecordCascade() {
	r.cascades.Inc()
	atomic.AddInt64(&r.cascadeCount, 1)
}

// RecordConflict increments the conflict counter, invoked from
// EventListener.ConflictDetected.
func (r *Recorder) RecordConflict() {
	r.conflicts.Inc()
	atomic.AddInt64(&r.conflictCount, 1)
}

// SetLevelOccupancy records level i's current element count.
func (r *Recorder) SetLevelOccupancy(level, elements int) {
	r.levelOccup.WithLabelValues(levelLabel(level)).Set(float64(elements))
}

func levelLabel(level int) string {
	const hex = "0123456789abcdefghijklmnopqrstuvwxyz"
	if level < 0 || level >= len(hex) {
		return "overflow"
	}
	return string(hex[level])
}

// RecordInsert records how long a single Insert call took.
func (r *Recorder) RecordInsert(d time.Duration) { _ = r.insertHist.RecordValue(int64(d)) }

// RecordFind records how long a single Find call took.
func (r *Recorder) RecordFind(d time.Duration) { _ = r.findHist.RecordValue(int64(d)) }

// RecordCommit records how long a transaction commit took.
func (r *Recorder) RecordCommit(d time.Duration) { _ = r.commitHist.RecordValue(int64(d)) }

// Snapshot is a point-in-time view of every metric Recorder tracks.
type Snapshot struct {
	Cascades       int64
	Conflicts      int64
	InsertP50Nanos int64
	InsertP99Nanos int64
	FindP50Nanos   int64
	FindP99Nanos   int64
	CommitP50Nanos int64
	CommitP99Nanos int64
}

// Snapshot gathers the current metric values.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Cascades:       atomic.LoadInt64(&r.cascadeCount),
		Conflicts:      atomic.LoadInt64(&r.conflictCount),
		InsertP50Nanos: r.insertHist.ValueAtQuantile(50),
		InsertP99Nanos: r.insertHist.ValueAtQuantile(99),
		FindP50Nanos:   r.findHist.ValueAtQuantile(50),
		FindP99Nanos:   r.findHist.ValueAtQuantile(99),
		CommitP50Nanos: r.commitHist.ValueAtQuantile(50),
		CommitP99Nanos: r.commitHist.ValueAtQuantile(99),
	}
}
