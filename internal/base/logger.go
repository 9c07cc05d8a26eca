// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"log"
	"os"
)

// Logger defines an interface for write log messages. It is deliberately
// minimal: colakv does not pull in a structured-logging library for the
// ambient concern of emitting diagnostic lines, the same way the teacher
// keeps its own base.Logger a thin wrapper over the standard log package.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger logs to the standard library's log package.
var DefaultLogger Logger = defaultLogger{}

type defaultLogger struct{}

func (defaultLogger) Infof(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func (defaultLogger) Errorf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func (defaultLogger) Fatalf(format string, args ...interface{}) {
	log.Printf(format, args...)
	os.Exit(1)
}

// NoopLogger discards every message; useful in tests that don't want
// diagnostic chatter interleaved with -v output.
var NoopLogger Logger = noopLogger{}

type noopLogger struct{}

func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatalf(string, ...interface{}) {}

// EventListener mirrors pebble's own EventListener: a struct of optional
// callbacks that, when nil, colakv never invokes. This is how ambient
// observability hooks are carried without forcing every caller to implement
// a full interface.
type EventListener struct {
	// CascadeStarted is defaulted by EnsureDefaults like the other
	// callbacks, but no colakv code path invokes it; cascades are reported
	// only through CascadeFinished.
	CascadeStarted func(level int)
	// CascadeFinished fires when the cascade settles into a freshly full
	// level.
	CascadeFinished func(level int, elements int)
	// ConflictDetected fires when a write transaction's commit is rejected
	// because of an overlapping read set (spec.md §3.6).
	ConflictDetected func(key []byte, readVersion, commitVersion uint64)
	// SnapshotSaved fires after a successful Database.SaveSnapshot.
	SnapshotSaved func(path string, bytesWritten int64)
	// SnapshotLoaded fires after a successful Database.LoadSnapshot.
	SnapshotLoaded func(path string, bytesRead int64)
}

// EnsureDefaults fills every nil callback with a no-op so callers never need
// a nil check before invoking one.
func (e *EventListener) EnsureDefaults() {
	if e.CascadeStarted == nil {
		e.CascadeStarted = func(int) {}
	}
	if e.CascadeFinished == nil {
		e.CascadeFinished = func(int, int) {}
	}
	if e.ConflictDetected == nil {
		e.ConflictDetected = func([]byte, uint64, uint64) {}
	}
	if e.SnapshotSaved == nil {
		e.SnapshotSaved = func(string, int64) {}
	}
	if e.SnapshotLoaded == nil {
		e.SnapshotLoaded = func(string, int64) {}
	}
}
