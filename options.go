// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package colakv is the root façade: it wires internal/arena,
// internal/cola (via orderedset), mvcc, snapshot, and internal/metrics
// into the single Database type the CLI and embedding applications use
// (SPEC_FULL.md §0).
package colakv

import (
	"os"
	"strconv"

	"github.com/colakv/colakv/internal/arena"
	"github.com/colakv/colakv/internal/base"
	"github.com/colakv/colakv/internal/cola"
)

// Options configures a Database, following the teacher's own plain-struct
// Options convention (fields with a separate EnsureDefaults-style
// constructor) rather than a config-file library (SPEC_FULL.md §2).
type Options struct {
	PageSize        int
	MaxLevels       int
	BuilderPoolSize int
	Logger          base.Logger
	EventListener   base.EventListener
}

// DefaultOptions returns the engine's baseline configuration.
func DefaultOptions() Options {
	return Options{
		PageSize:        arena.DefaultPageSize,
		MaxLevels:       cola.DefaultMaxLevels,
		BuilderPoolSize: 16,
		Logger:          base.DefaultLogger,
	}
}

// EnsureDefaults fills zero-valued fields and applies the
// ENGINE_PAGE_SIZE / ENGINE_MAX_LEVELS / ENGINE_BUILDER_POOL_SIZE
// environment overrides (spec.md §6), read once here rather than at every
// call site.
func (o *Options) EnsureDefaults() {
	def := DefaultOptions()
	if o.PageSize == 0 {
		o.PageSize = def.PageSize
	}
	if o.MaxLevels == 0 {
		o.MaxLevels = def.MaxLevels
	}
	if o.BuilderPoolSize == 0 {
		o.BuilderPoolSize = def.BuilderPoolSize
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	o.EventListener.EnsureDefaults()

	if v := os.Getenv("ENGINE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			o.PageSize = n
		}
	}
	if v := os.Getenv("ENGINE_MAX_LEVELS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			o.MaxLevels = n
		}
	}
	if v := os.Getenv("ENGINE_BUILDER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			o.BuilderPoolSize = n
		}
	}
}
