// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/colakv/colakv/internal/base"
)

func isConflictErr(err error) bool {
	return errors.Is(err, base.ErrConflict)
}

func isIOErr(err error) bool {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return true
	}
	return base.IsCorruptionError(err)
}
