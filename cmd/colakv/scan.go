// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "scan <begin> <end>",
		Short: "Print every key in [begin, end) from a .pndb snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadSnapshotDB(context.Background(), dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			begin, end := []byte(args[0]), []byte(args[1])
			entries := db.Scan(begin, end)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"key", "value"})
			for _, e := range entries {
				table.Append([]string{string(e.Key), string(e.Value)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "out.pndb", dbFileFlagUsage)
	return cmd
}
