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

// Package leveldb implements the kv.KV contract on top of syndtr/goleveldb.
package leveldb

import (
	"context"
	"errors"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/kv"
)

const Type = "leveldb"

func init() {
	kv.Register(Type, kv.Registration{
		NewFunc:      Open,
		InitFunc:     Create,
		IsPersistent: true,
	})
	graph.RegisterQuadStore(Type, graph.QuadStoreRegistration{
		NewFunc: func(path string, opt graph.Options) (graph.QuadStore, error) {
			db, err := Open(path, kv.Options(opt))
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

func newDB(d *leveldb.DB, m kv.Options) *DB {
	db := &DB{
		db: d,
		wo: &opt.WriteOptions{},
		ro: &opt.ReadOptions{},
	}
	db.wo.Sync = !m.BoolKey("nosync", false)
	return db
}

// Create opens a new leveldb database at path, failing if one already
// exists.
func Create(path string, m kv.Options) (kv.KV, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfExist: true})
	if os.IsExist(err) {
		return nil, kv.ErrDBExists
	} else if err != nil {
		return nil, err
	}
	return newDB(db, m), nil
}

// Open opens an existing leveldb database at path.
func Open(path string, m kv.Options) (kv.KV, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfMissing: true})
	if err != nil {
		return nil, err
	}
	return newDB(db, m), nil
}

type DB struct {
	db *leveldb.DB
	wo *opt.WriteOptions
	ro *opt.ReadOptions
}

func (d *DB) Type() string { return Type }
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Tx(update bool) (kv.Tx, error) {
	tx := &Tx{db: d}
	var err error
	if update {
		tx.tx, err = d.db.OpenTransaction()
	} else {
		tx.sn, err = d.db.GetSnapshot()
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

type Tx struct {
	db  *DB
	sn  *leveldb.Snapshot
	tx  *leveldb.Transaction
	err error
}

func (tx *Tx) Commit(ctx context.Context) error {
	if tx.err != nil {
		return tx.err
	}
	if tx.tx != nil {
		tx.err = tx.tx.Commit()
		return tx.err
	}
	tx.sn.Release()
	return tx.err
}

func (tx *Tx) Rollback() error {
	if tx.tx != nil {
		tx.tx.Discard()
	} else {
		tx.sn.Release()
	}
	return tx.err
}

func (tx *Tx) Get(ctx context.Context, keys [][]byte) ([][]byte, error) {
	vals := make([][]byte, len(keys))
	get := tx.sn.Get
	if tx.tx != nil {
		get = tx.tx.Get
	}
	for i, k := range keys {
		v, err := get(k, tx.db.ro)
		if err == leveldb.ErrNotFound {
			continue
		} else if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

var errReadOnlyTx = errors.New("leveldb: write on a read-only transaction")

func (tx *Tx) Put(k, v []byte) error {
	if tx.tx == nil {
		return errReadOnlyTx
	}
	return tx.tx.Put(k, v, tx.db.wo)
}

func (tx *Tx) Del(k []byte) error {
	if tx.tx == nil {
		return errReadOnlyTx
	}
	return tx.tx.Delete(k, tx.db.wo)
}

func (tx *Tx) Scan(pref []byte) kv.Iterator {
	r, ro := util.BytesPrefix(pref), tx.db.ro
	var it iterator.Iterator
	if tx.tx != nil {
		it = tx.tx.NewIterator(r, ro)
	} else {
		it = tx.sn.NewIterator(r, ro)
	}
	return &Iterator{it: it, first: true}
}

type Iterator struct {
	it    iterator.Iterator
	first bool
}

func (it *Iterator) Next(ctx context.Context) bool {
	if it.first {
		it.first = false
		return it.it.First()
	}
	return it.it.Next()
}
func (it *Iterator) Key() []byte { return it.it.Key() }
func (it *Iterator) Val() []byte { return it.it.Value() }
func (it *Iterator) Err() error  { return it.it.Error() }
func (it *Iterator) Close() error {
	it.it.Release()
	return it.Err()
}
