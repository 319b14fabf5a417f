// Copyright 2017 The Cayley Authors. All rights reserved.
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

package leveldb

import (
	"os"
	"testing"

	"github.com/gizmograph/gizmodb/graph/kv"
	"github.com/gizmograph/gizmodb/graph/kv/kvtest"
)

func makeLeveldb(t testing.TB) (kv.KV, func()) {
	tmpDir, err := os.MkdirTemp("", "gizmodb_test_"+Type)
	if err != nil {
		t.Fatalf("could not create working directory: %v", err)
	}
	os.Remove(tmpDir)
	db, err := Create(tmpDir, nil)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create leveldb database: %v", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}
}

func TestLeveldb(t *testing.T) {
	kvtest.TestAll(t, makeLeveldb)
}
