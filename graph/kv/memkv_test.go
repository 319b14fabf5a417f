// Copyright 2016 The Cayley Authors. All rights reserved.
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

package kv

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// memKV is a minimal, sorted in-memory KV used only to exercise QuadStore's
// own logic in this package's tests, independent of any real backend.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Type() string { return "mem" }
func (m *memKV) Close() error { return nil }

func (m *memKV) Tx(update bool) (Tx, error) {
	return &memTx{db: m, update: update}, nil
}

type memTx struct {
	db     *memKV
	update bool
}

func (tx *memTx) Commit(ctx context.Context) error { return nil }
func (tx *memTx) Rollback() error                  { return nil }

func (tx *memTx) Get(ctx context.Context, keys [][]byte) ([][]byte, error) {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := tx.db.data[string(k)]; ok {
			out[i] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (tx *memTx) Put(k, v []byte) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.data[string(k)] = append([]byte(nil), v...)
	return nil
}

func (tx *memTx) Del(k []byte) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	delete(tx.db.data, string(k))
	return nil
}

func (tx *memTx) Scan(pref []byte) Iterator {
	tx.db.mu.Lock()
	var keys []string
	for k := range tx.db.data {
		if bytes.HasPrefix([]byte(k), pref) {
			keys = append(keys, k)
		}
	}
	tx.db.mu.Unlock()
	sort.Strings(keys)
	return &memIterator{tx: tx, keys: keys, i: -1}
}

type memIterator struct {
	tx   *memTx
	keys []string
	i    int
}

func (it *memIterator) Next(ctx context.Context) bool {
	it.i++
	return it.i < len(it.keys)
}

func (it *memIterator) Key() []byte { return []byte(it.keys[it.i]) }
func (it *memIterator) Val() []byte {
	v, _ := it.tx.db.data[it.keys[it.i]]
	return v
}
func (it *memIterator) Err() error   { return nil }
func (it *memIterator) Close() error { return nil }
