// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	colakv "github.com/colakv/colakv"
	"github.com/colakv/colakv/snapshot"
)

func newBulkLoadCmd() *cobra.Command {
	var out string
	var varint, snappyFlag, zstdFlag bool

	cmd := &cobra.Command{
		Use:   "bulk-load <input>",
		Short: "Load key/value records from a tab-separated file and write a .pndb snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := readEntries(f)
			if err != nil {
				return err
			}

			db := colakv.Open(colakv.DefaultOptions())
			defer db.Close()
			db.BulkLoad(entries, false)

			opts := snapshot.DefaultOptions()
			opts.VarintLengths = varint
			switch {
			case zstdFlag:
				opts.Compression = snapshot.CompressionZstd
			case snappyFlag:
				opts.Compression = snapshot.CompressionSnappy
			}

			n, err := db.SaveSnapshot(context.Background(), out, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries (%d bytes) to %s\n", len(entries), n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "out.pndb", "path to write the resulting snapshot")
	cmd.Flags().BoolVar(&varint, "varint", false, "use varint-encoded entry lengths")
	cmd.Flags().BoolVar(&snappyFlag, "snappy", false, "compress values with snappy")
	cmd.Flags().BoolVar(&zstdFlag, "zstd", false, "compress the whole body with zstd")
	return cmd
}
