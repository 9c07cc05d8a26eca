// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/colakv/colakv/internal/base"
)

func newGetCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Look up a single key in a .pndb snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadSnapshotDB(context.Background(), dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			v, ok := db.Get([]byte(args[0]))
			if !ok {
				return errors.Mark(errors.Newf("colakv: key %q not found", args[0]), base.ErrKeyNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(v))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "out.pndb", dbFileFlagUsage)
	return cmd
}
