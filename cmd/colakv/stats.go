// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <path>",
		Short: "Print engine metrics and a level-occupancy graph for a .pndb snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadSnapshotDB(context.Background(), args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			occupancy := asFloats(db.LevelOccupancy())
			if len(occupancy) > 0 {
				graph := asciigraph.Plot(occupancy, asciigraph.Height(10), asciigraph.Caption("level occupancy"))
				fmt.Fprintln(cmd.OutOrStdout(), graph)
			}

			snap := db.Metrics()
			fmt.Fprintf(cmd.OutOrStdout(), "cascades=%d conflicts=%d insert_p50=%s insert_p99=%s find_p50=%s commit_p50=%s\n",
				snap.Cascades, snap.Conflicts,
				time.Duration(snap.InsertP50Nanos), time.Duration(snap.InsertP99Nanos),
				time.Duration(snap.FindP50Nanos), time.Duration(snap.CommitP50Nanos))
			return nil
		},
	}
	return cmd
}

func asFloats(counts []int) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c)
	}
	return out
}
