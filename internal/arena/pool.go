// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import "sync"

// BuilderPool is a fixed-capacity stack of recycled Builders, guarded by a
// mutex so it is safe to share across goroutines (spec.md §4.5, §5). A
// sync.Pool alone cannot report the deterministic loaned/parked byte
// counters the spec requires (its contents may be dropped by the GC at any
// time), so this is a small hand-rolled stack instead.
type BuilderPool struct {
	mu       sync.Mutex
	free     []*Builder
	capacity int

	loanedBytes int64
	parkedBytes int64
}

// NewBuilderPool returns a BuilderPool that recycles at most capacity
// builders; builders returned beyond that capacity are discarded.
func NewBuilderPool(capacity int) *BuilderPool {
	if capacity <= 0 {
		capacity = 1
	}
	return &BuilderPool{capacity: capacity}
}

// LoanedBytes returns the total capacity of builders currently checked out.
func (p *BuilderPool) LoanedBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loanedBytes
}

// ParkedBytes returns the total capacity of builders currently parked in
// the pool.
func (p *BuilderPool) ParkedBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parkedBytes
}

// Handle is a scoped loan of a Builder from a BuilderPool. Release must be
// called exactly once to return the builder to the pool.
type Handle struct {
	pool     *BuilderPool
	Builder  *Builder
	size     int64
	released bool
}

// Use checks out a Builder, creating a fresh one if the pool is empty.
func (p *BuilderPool) Use() *Handle {
	p.mu.Lock()
	var b *Builder
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free = p.free[:n-1]
		p.parkedBytes -= int64(b.Cap())
	} else {
		b = NewBuilder()
	}
	p.loanedBytes += int64(b.Cap())
	p.mu.Unlock()

	return &Handle{pool: p, Builder: b, size: int64(b.Cap())}
}

// Release returns the builder to the pool, or discards it if the pool is at
// capacity. Calling Release more than once is a no-op.
func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true

	p := h.pool
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loanedBytes -= h.size
	if len(p.free) >= p.capacity {
		return
	}
	h.Builder.Reset()
	p.free = append(p.free, h.Builder)
	p.parkedBytes += int64(h.Builder.Cap())
}
