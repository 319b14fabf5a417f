// Copyright 2014 The Cayley Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gizmograph/gizmodb/clog"
	"github.com/gizmograph/gizmodb/internal/load"
)

func newLoadCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Bulk-load a quad file into the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := openStore()
			if err != nil {
				return err
			}
			defer qs.Close()

			qw, err := qs.NewQuadWriter()
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := load.Load(qw, args[0], load.Options{Format: format})
			if err != nil {
				return err
			}
			clog.Infof("loaded %d quads from %q in %v", res.Written, args[0], time.Since(start))

			st, err := qs.Stats(cmd.Context(), true)
			if err != nil {
				return err
			}
			clog.Infof("database now holds %d nodes and %d quads", st.Nodes.Value, st.Quads.Value)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "quad file format to use instead of auto-detection")
	return cmd
}
