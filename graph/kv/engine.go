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

// Package kv implements the quad store on top of a single ordered,
// byte-sliced keyspace. Backends only need to provide the KV contract
// below; everything about interning values, bookkeeping refcounts and
// maintaining the four direction indexes lives in this package.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("kv: key not found")
	ErrReadOnlyTx  = errors.New("kv: write on a read-only transaction")
	ErrDBExists    = errors.New("kv: database already exists")
	ErrDBNotExists = errors.New("kv: database does not exist")
)

// KV is a single ordered keyspace: no buckets, no nesting. Keys sort
// byte-lexicographically, which is why every multi-byte integer the rest of
// this package writes is big-endian.
type KV interface {
	// Type returns the backend's registration name.
	Type() string
	// Close releases the backend's resources.
	Close() error
	// Tx opens a new transaction. update selects a read-write transaction;
	// otherwise the transaction is read-only.
	Tx(update bool) (Tx, error)
}

// Tx is a single read or (if opened for update) read-write transaction.
type Tx interface {
	// Commit applies a read-write transaction's writes. On a read-only
	// transaction it writes nothing and returns nil.
	Commit(ctx context.Context) error
	// Rollback discards the transaction. Safe to call after Commit.
	Rollback() error

	// Get fetches the value for each key, in order; a missing key yields a
	// nil slice at that position rather than an error.
	Get(ctx context.Context, keys [][]byte) ([][]byte, error)
	// Put writes a key/value pair. Only valid on a read-write transaction.
	Put(k, v []byte) error
	// Del removes a key. Only valid on a read-write transaction. Deleting
	// an absent key is not an error.
	Del(k []byte) error
	// Scan iterates every key with the given prefix, in ascending order.
	Scan(pref []byte) Iterator
}

// Iterator walks the keys produced by Tx.Scan, in ascending order.
type Iterator interface {
	// Next advances to the next key. Call once before the first Key/Val.
	Next(ctx context.Context) bool
	// Key returns the current key. Valid only after Next returns true.
	Key() []byte
	// Val returns the current value. Valid only after Next returns true.
	Val() []byte
	// Err returns any error encountered during iteration.
	Err() error
	// Close releases the iterator's resources.
	Close() error
}

// View runs fn inside a read-only transaction, rolling it back afterwards.
func View(ctx context.Context, db KV, fn func(tx Tx) error) error {
	tx, err := db.Tx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(tx)
}

// Update runs fn inside a read-write transaction and commits it if fn
// succeeds; any error rolls the transaction back instead.
func Update(ctx context.Context, db KV, fn func(tx Tx) error) error {
	tx, err := db.Tx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Each scans every key with prefix pref and calls fn for each, stopping
// early if fn returns an error.
func Each(ctx context.Context, tx Tx, pref []byte, fn func(k, v []byte) error) error {
	it := tx.Scan(pref)
	defer it.Close()
	for it.Next(ctx) {
		if err := fn(it.Key(), it.Val()); err != nil {
			return err
		}
	}
	return it.Err()
}

// Registration describes a backend that can be opened by name.
type Registration struct {
	NewFunc      func(path string, opt Options) (KV, error)
	InitFunc     func(path string, opt Options) (KV, error)
	IsPersistent bool
}

// Options carries backend-specific configuration, mirroring the top-level
// graph.Options map without introducing a dependency on the graph package.
type Options map[string]interface{}

func (o Options) BoolKey(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (o Options) IntKey(key string, def int) int {
	if v, ok := o[key]; ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return def
}

var registry = make(map[string]Registration)

// Register makes a backend available by name to Open/Init.
func Register(name string, r Registration) {
	registry[name] = r
}

// Open opens an existing database using the named backend.
func Open(name, path string, opt Options) (KV, error) {
	r, ok := registry[name]
	if !ok {
		return nil, errors.New("kv: unknown backend " + name)
	}
	return r.NewFunc(path, opt)
}

// Init creates a new database using the named backend.
func Init(name, path string, opt Options) (KV, error) {
	r, ok := registry[name]
	if !ok {
		return nil, errors.New("kv: unknown backend " + name)
	}
	return r.InitFunc(path, opt)
}

// IsPersistent reports whether the named backend persists to disk.
func IsPersistent(name string) bool {
	return registry[name].IsPersistent
}

// Backends lists every registered backend name.
func Backends() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
