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
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node and quad counts for the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := openStore()
			if err != nil {
				return err
			}
			defer qs.Close()

			st, err := qs.Stats(cmd.Context(), true)
			if err != nil {
				return err
			}
			fmt.Printf("nodes: %d\nquads: %d\n", st.Nodes.Value, st.Quads.Value)
			return nil
		},
	}
}
