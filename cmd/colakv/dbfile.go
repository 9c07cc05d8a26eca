// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	colakv "github.com/colakv/colakv"
	"github.com/colakv/colakv/snapshot"
)

// readEntries parses tab-separated "key\tvalue" lines from r, one per
// record. Blank lines and lines starting with '#' are skipped.
func readEntries(r io.Reader) ([]snapshot.Entry, error) {
	var entries []snapshot.Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, errors.Newf("colakv: malformed input line %q, expected key<TAB>value", line)
		}
		entries = append(entries, snapshot.Entry{Key: []byte(parts[0]), Value: []byte(parts[1])})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// openInput returns an io.ReadCloser for path, or stdin if path is "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// loadSnapshotDB opens a fresh Database and loads path into it.
func loadSnapshotDB(ctx context.Context, path string) (*colakv.Database, error) {
	db := colakv.Open(colakv.DefaultOptions())
	if _, err := db.LoadSnapshot(ctx, path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
