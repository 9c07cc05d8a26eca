// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import (
	"github.com/cockroachdb/errors"

	"github.com/colakv/colakv/internal/base"
)

const (
	// DefaultPageSize is the default size of a page allocated by a Heap,
	// overridable via the ENGINE_PAGE_SIZE environment variable (spec.md
	// §6) at the Database level.
	DefaultPageSize = 1 << 20 // 1 MiB

	// minAlign is the minimum alignment a Heap honors, matching the
	// machine word size floor spec.md §3.2 requires.
	minAlign = 8

	// largeAllocFraction is the denominator of the page-size fraction past
	// which an allocation gets its own dedicated page rather than sharing
	// the current page (spec.md §3.2: "> pageSize/4").
	largeAllocFraction = 4
)

// page is one bump-allocated arena page.
type page struct {
	buf  []byte
	used int
}

// Heap is a growable collection of bump-allocated pages: the target-language
// replacement for the source's pinned managed buffer (spec.md §3.2, §9).
// Allocation is monotone; there is no per-allocation free. Dropping the Heap
// (letting it become garbage) invalidates every USlice derived from it
// simultaneously, since their backing pages are reachable only through it.
//
// A Heap is exclusively owned by a single writer task (spec.md §5); it is
// not safe for concurrent use without external synchronization.
type Heap struct {
	pageSize int
	pages    []*page
	cur      *page

	disposed bool

	bytesAllocated int64
	bytesUsed      int64
}

// NewHeap creates a Heap whose default page size is pageSize. A pageSize of
// zero selects DefaultPageSize.
func NewHeap(pageSize int) *Heap {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Heap{pageSize: pageSize}
}

// Dispose marks the heap as no longer usable. Subsequent Allocate/Memoize
// calls return ErrAlreadyDisposed. Dispose itself does not need to free
// anything explicitly: Go's garbage collector reclaims the pages once the
// last USlice referencing them is gone, but routing through Dispose lets
// callers fail fast on use-after-drop the way spec.md §9 requires rather
// than silently reading stale pointers.
func (h *Heap) Dispose() {
	h.disposed = true
	h.pages = nil
	h.cur = nil
}

// BytesAllocated returns the total number of bytes across all pages the
// heap has allocated from the Go runtime.
func (h *Heap) BytesAllocated() int64 { return h.bytesAllocated }

// BytesUsed returns the total number of bytes handed out via Allocate or
// Memoize.
func (h *Heap) BytesUsed() int64 { return h.bytesUsed }

// Allocate reserves size bytes aligned to align (rounded up to minAlign)
// and returns the backing slice. The returned slice is valid for the
// lifetime of the Heap; callers wanting a USlice should use Memoize or wrap
// the returned bytes via sliceFrom-equivalent logic within this package.
func (h *Heap) Allocate(size int, align int) ([]byte, error) {
	if h.disposed {
		return nil, errors.WithStack(base.ErrAlreadyDisposed)
	}
	if align < minAlign {
		align = minAlign
	}
	if size < 0 {
		return nil, errors.Newf("colakv: negative allocation size %d", size)
	}
	if size == 0 {
		return nil, nil
	}

	if size > h.pageSize/largeAllocFraction {
		return h.allocatePrivatePage(size)
	}

	if h.cur != nil {
		if off, ok := alignedOffset(h.cur.used, align); ok && off+size <= len(h.cur.buf) {
			b := h.cur.buf[off : off+size : off+size]
			h.cur.used = off + size
			h.bytesUsed += int64(size)
			return b, nil
		}
	}

	np := &page{buf: make([]byte, h.pageSize)}
	h.pages = append(h.pages, np)
	h.cur = np
	h.bytesAllocated += int64(len(np.buf))

	off, _ := alignedOffset(0, align)
	b := np.buf[off : off+size : off+size]
	np.used = off + size
	h.bytesUsed += int64(size)
	return b, nil
}

func (h *Heap) allocatePrivatePage(size int) ([]byte, error) {
	np := &page{buf: make([]byte, size), used: size}
	h.pages = append(h.pages, np)
	h.bytesAllocated += int64(size)
	h.bytesUsed += int64(size)
	return np.buf, nil
}

func alignedOffset(used, align int) (int, bool) {
	rem := used % align
	if rem == 0 {
		return used, true
	}
	return used + (align - rem), true
}

// Memoize copies bytes into the heap and returns a USlice pointing into the
// copy. The caller's slice may be reused or discarded immediately after
// Memoize returns.
func (h *Heap) Memoize(bytes []byte) (USlice, error) {
	if len(bytes) == 0 {
		return NilSlice, nil
	}
	dst, err := h.Allocate(len(bytes), minAlign)
	if err != nil {
		return NilSlice, err
	}
	copy(dst, bytes)
	return sliceFrom(dst), nil
}
