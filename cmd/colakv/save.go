// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colakv/colakv/snapshot"
)

// newSaveCmd re-encodes an existing snapshot with different codec options,
// the way a compaction tool might rewrite an sstable under a new block
// codec without touching its logical contents.
func newSaveCmd() *cobra.Command {
	var out string
	var varint, snappyFlag, zstdFlag bool

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Re-save an existing .pndb snapshot, optionally with different codec options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadSnapshotDB(context.Background(), args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			opts := snapshot.DefaultOptions()
			opts.VarintLengths = varint
			switch {
			case zstdFlag:
				opts.Compression = snapshot.CompressionZstd
			case snappyFlag:
				opts.Compression = snapshot.CompressionSnappy
			}

			if out == "" {
				out = args[0]
			}
			n, err := db.SaveSnapshot(context.Background(), out, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d bytes to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the input path)")
	cmd.Flags().BoolVar(&varint, "varint", false, "use varint-encoded entry lengths")
	cmd.Flags().BoolVar(&snappyFlag, "snappy", false, "compress values with snappy")
	cmd.Flags().BoolVar(&zstdFlag, "zstd", false, "compress the whole body with zstd")
	return cmd
}
