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

// Package badger implements the kv.KV contract on top of dgraph-io/badger.
package badger

import (
	"context"
	"errors"
	"os"

	"github.com/dgraph-io/badger"
	"github.com/dgraph-io/badger/options"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/kv"
)

const Type = "badger"

var ErrTxNotWritable = errors.New("badger: transaction is read-only")

func init() {
	kv.Register(Type, kv.Registration{
		NewFunc:      Create,
		InitFunc:     Create,
		IsPersistent: true,
	})
	graph.RegisterQuadStore(Type, graph.QuadStoreRegistration{
		NewFunc: func(path string, opt graph.Options) (graph.QuadStore, error) {
			db, err := Create(path, kv.Options(opt))
			if err != nil {
				return nil, err
			}
			return kv.New(db), nil
		},
		InitFunc: func(path string, opt graph.Options) error {
			db, err := Create(path, kv.Options(opt))
			if err != nil {
				return err
			}
			return db.Close()
		},
		IsPersistent: true,
	})
}

// Create opens (or creates) a badger database at path.
func Create(path string, _ kv.Options) (kv.KV, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.ValueLogLoadingMode = options.FileIO
	opts.TableLoadingMode = options.FileIO

	store, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DB{db: store}, nil
}

type DB struct {
	db       *badger.DB
	isClosed bool
}

func (d *DB) Type() string { return Type }

func (d *DB) Close() error {
	if d.db == nil || d.isClosed {
		return nil
	}
	d.isClosed = true
	return d.db.Close()
}

func (d *DB) Tx(update bool) (kv.Tx, error) {
	return &Tx{update: update, txn: d.db.NewTransaction(update)}, nil
}

type Tx struct {
	txn    *badger.Txn
	err    error
	update bool
}

func (tx *Tx) Commit(ctx context.Context) error {
	if tx.err != nil {
		return tx.err
	}
	if !tx.update {
		return nil
	}
	tx.err = tx.txn.Commit(nil)
	return tx.err
}

func (tx *Tx) Rollback() error {
	tx.txn.Discard()
	return tx.err
}

func (tx *Tx) Get(ctx context.Context, keys [][]byte) ([][]byte, error) {
	vals := make([][]byte, len(keys))
	for i, k := range keys {
		item, err := tx.txn.Get(k)
		if err == badger.ErrKeyNotFound {
			continue
		} else if err != nil {
			return nil, err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (tx *Tx) Put(k, v []byte) error {
	if !tx.update {
		return ErrTxNotWritable
	}
	return tx.txn.Set(k, v)
}

func (tx *Tx) Del(k []byte) error {
	if !tx.update {
		return ErrTxNotWritable
	}
	return tx.txn.Delete(k)
}

func (tx *Tx) Scan(pref []byte) kv.Iterator {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.PrefetchSize = 100
	it := tx.txn.NewIterator(opts)
	return &Iterator{iter: it, first: true, pref: pref}
}

type Iterator struct {
	iter  *badger.Iterator
	first bool
	pref  []byte
	err   error
}

func (it *Iterator) Next(ctx context.Context) bool {
	if it.first {
		it.first = false
		it.iter.Seek(it.pref)
	} else {
		it.iter.Next()
	}
	return it.iter.ValidForPrefix(it.pref)
}

func (it *Iterator) Key() []byte { return it.iter.Item().KeyCopy(nil) }

func (it *Iterator) Val() []byte {
	val, err := it.iter.Item().ValueCopy(nil)
	if err != nil {
		it.err = err
	}
	return val
}

func (it *Iterator) Err() error { return it.err }

func (it *Iterator) Close() error {
	it.iter.Close()
	return it.err
}
