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
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gizmograph/gizmodb/clog"
	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/kv"

	_ "github.com/gizmograph/gizmodb/graph/kv/badger"
	_ "github.com/gizmograph/gizmodb/graph/kv/leveldb"
	_ "github.com/gizmograph/gizmodb/writer"
)

// Viper keys shared by every subcommand.
const (
	keyBackend = "store.backend"
	keyPath    = "store.path"
	keyVerbose = "store.verbose"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gizmodb",
		Short: "A persistent quad store.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool(keyVerbose) {
				clog.SetV(2)
			}
		},
	}

	names := kv.Backends()
	sort.Strings(names)

	root.PersistentFlags().StringP("backend", "b", "badger", "storage backend ("+strings.Join(names, ", ")+")")
	root.PersistentFlags().StringP("db-path", "d", "", "path to the database directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress at higher verbosity")
	viper.BindPFlag(keyBackend, root.PersistentFlags().Lookup("backend"))
	viper.BindPFlag(keyPath, root.PersistentFlags().Lookup("db-path"))
	viper.BindPFlag(keyVerbose, root.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("GIZMODB")
	viper.AutomaticEnv()

	root.AddCommand(newInitCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newStatsCmd())
	return root
}

func openStore() (graph.QuadStore, error) {
	name := viper.GetString(keyBackend)
	path := viper.GetString(keyPath)
	return graph.NewQuadStore(name, path, nil)
}
