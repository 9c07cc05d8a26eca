// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command colakv is the command-line front end for the COLA-backed ordered
// key-value engine (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes per spec.md §6.
const (
	exitSuccess     = 0
	exitUsage       = 1
	exitIO          = 2
	exitConflict    = 3
	dbFileFlagUsage = "path to the .pndb snapshot file to operate on"
)

func main() {
	root := &cobra.Command{
		Use:           "colakv",
		Short:         "COLA-backed ordered key-value store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBulkLoadCmd(),
		newSaveCmd(),
		newLoadCmd(),
		newGetCmd(),
		newScanCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "colakv:", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case isConflictErr(err):
		return exitConflict
	case isIOErr(err):
		return exitIO
	default:
		return exitUsage
	}
}
