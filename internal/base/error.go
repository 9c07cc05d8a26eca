// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"github.com/cockroachdb/errors"
)

// The error taxonomy of SPEC_FULL.md §2 / spec.md §7. Each sentinel is a
// cockroachdb/errors value so that errors.Is and errors.Wrapf compose the
// way they do throughout the teacher's sstable and ingest paths.
var (
	// ErrDuplicateKey is returned by an insert of a key already present.
	ErrDuplicateKey = errors.New("colakv: duplicate key")

	// ErrKeyNotFound is returned by a get of a missing key via a
	// contract-obliged accessor.
	ErrKeyNotFound = errors.New("colakv: key not found")

	// ErrKeyOutsideLegalRange is returned when a key selector resolves past
	// the system-key boundary without access to system keys.
	ErrKeyOutsideLegalRange = errors.New("colakv: key selector resolved outside the legal key range")

	// ErrBufferTooSmall is returned by a fixed-width read/write of a slice
	// with insufficient length.
	ErrBufferTooSmall = errors.New("colakv: buffer too small")

	// ErrAlreadyDisposed is returned on use-after-free of an arena-backed
	// resource.
	ErrAlreadyDisposed = errors.New("colakv: use of disposed resource")

	// ErrConflict is returned when a write transaction's commit races
	// against another writer's overlapping read set.
	ErrConflict = errors.New("colakv: transaction conflict")

	// ErrCancelled is returned when an operation observes an expired
	// context or explicit cancellation.
	ErrCancelled = errors.New("colakv: operation cancelled")

	// ErrOutOfMemory is returned when arena growth fails.
	ErrOutOfMemory = errors.New("colakv: out of memory")
)

// errCorruptionMark is the marker every CorruptionErrorf result carries, so
// IsCorruptionError survives arbitrary further Wrapf layering.
var errCorruptionMark = errors.New("colakv: invalid format")

// CorruptionErrorf reports the InvalidFormat error class: a malformed
// on-disk snapshot header, body, or footer. Named CorruptionErrorf (rather
// than InvalidFormatErrorf) to match the teacher's own base.CorruptionErrorf
// convention verbatim, since the condition it reports is identical: bytes
// on disk that don't decode into the structure the reader expects.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("colakv: corrupt snapshot: "+format, args...), errCorruptionMark)
}

// AssertionFailedf reports the Fatal error class: an invariant the engine
// relies on (COLA bit-pattern/level-occupancy correspondence, arena page
// bookkeeping) has been violated. Such errors are non-recoverable; callers
// must not attempt to continue the operation that raised one.
func AssertionFailedf(format string, args ...interface{}) error {
	return errors.AssertionFailedf("colakv: "+format, args...)
}

// IsCorruptionError reports whether err (or any error it wraps) was
// produced by CorruptionErrorf.
func IsCorruptionError(err error) bool {
	return errors.Is(err, errCorruptionMark)
}
