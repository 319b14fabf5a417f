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
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	boom "github.com/tylertreat/BoomFilters"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/refs"
	"github.com/gizmograph/gizmodb/graph/shape"
	"github.com/gizmograph/gizmodb/internal/lru"
	"github.com/gizmograph/gizmodb/quad"
)

// QuadStore is the facade every backend shares: it knows nothing about
// badger or leveldb, only about the KV contract, and implements interning,
// refcounting and the direction indexes on top of it.
type QuadStore struct {
	db KV

	mu    sync.RWMutex
	bloom *boom.DeletableBloomFilter

	valueLRU *lru.Cache
}

var _ graph.QuadStore = (*QuadStore)(nil)

// New wraps an already-open backend in a QuadStore.
func New(db KV) *QuadStore {
	qs := &QuadStore{
		db:       db,
		bloom:    boom.NewDeletableBloomFilter(1<<20, 5, 0.01),
		valueLRU: lru.New(4096),
	}
	return qs
}

func bloomKey(h uint64) []byte {
	return uint64key(h)
}

// --- id allocation & counters -------------------------------------------------

func (qs *QuadStore) readCounters(ctx context.Context, tx Tx) (counters, error) {
	vals, err := tx.Get(ctx, [][]byte{counterKey})
	if err != nil {
		return counters{}, err
	}
	return decodeCounters(vals[0]), nil
}

// nextValueID and nextQuadID share one id space: a primitive's id is always
// the running total of every primitive ever created, values and quads
// alike, so the two kinds can never collide on the same id.
func (qs *QuadStore) nextValueID(ctx context.Context, tx Tx, c *counters) (uint64, error) {
	c.Values++
	return c.Values + c.Quads, nil
}

func (qs *QuadStore) nextQuadID(ctx context.Context, tx Tx, c *counters) (uint64, error) {
	c.Quads++
	return c.Values + c.Quads, nil
}

// --- value interning -----------------------------------------------------

func quadHash(iq quad.InternalQuad) uint64 {
	h := fnv.New64a()
	h.Write([]byte("Quad"))
	h.Write(uint64key(iq.Subject))
	h.Write(uint64key(iq.Predicate))
	h.Write(uint64key(iq.Object))
	h.Write(uint64key(iq.Label))
	return h.Sum64()
}

// lruKey turns a content hash into the string key internal/lru expects.
func lruKey(h uint64) string {
	return string(uint64key(h))
}

// lookupHash returns the primitive id stored under content hash h, or 0 if
// absent. The LRU cache short-circuits repeat lookups of hot values; the
// bloom filter gates whether a cache miss even needs a hash index read,
// since a negative test means the hash definitely isn't present.
func (qs *QuadStore) lookupHash(ctx context.Context, tx Tx, h uint64) (uint64, error) {
	if v, ok := qs.valueLRU.Get(lruKey(h)); ok {
		return v.(uint64), nil
	}
	qs.mu.RLock()
	maybe := qs.bloom.Test(bloomKey(h))
	qs.mu.RUnlock()
	if !maybe {
		qs.recordHashLookup(false)
		return 0, nil
	}
	qs.recordHashLookup(true)
	vals, err := tx.Get(ctx, [][]byte{hashIndexKey(h)})
	if err != nil {
		return 0, err
	}
	if vals[0] == nil {
		return 0, nil
	}
	id := decodeUint64(vals[0])
	qs.valueLRU.Put(lruKey(h), id)
	return id, nil
}

func (qs *QuadStore) getPrimitive(ctx context.Context, tx Tx, id uint64) (*Primitive, error) {
	vals, err := tx.Get(ctx, [][]byte{primitiveKey(id)})
	if err != nil {
		return nil, err
	}
	if vals[0] == nil {
		return nil, nil
	}
	return DecodePrimitive(vals[0])
}

func (qs *QuadStore) putPrimitive(tx Tx, p *Primitive) error {
	return tx.Put(primitiveKey(p.ID), p.Encode())
}

// resolveVal implements the interning algorithm: look the value's hash up,
// bump its refcount if add is set and it already exists, or mint a new
// primitive for it if add is set and it doesn't.
func (qs *QuadStore) resolveVal(ctx context.Context, tx Tx, v quad.Value, add bool, c *counters) (uint64, bool, error) {
	if v.Kind == quad.KindNone {
		// None is never interned: id 0 is its sentinel and must never reach
		// a hash-index entry or a primitive record.
		return 0, true, nil
	}
	h := v.Hash()
	id, err := qs.lookupHash(ctx, tx, h)
	if err != nil {
		return 0, false, err
	}
	if id != 0 {
		if add {
			p, err := qs.getPrimitive(ctx, tx, id)
			if err != nil {
				return 0, false, err
			}
			if p == nil {
				return 0, false, fmt.Errorf("kv: dangling hash index entry for id %d", id)
			}
			p.Refs++
			if err := qs.putPrimitive(tx, p); err != nil {
				return 0, false, err
			}
		}
		return id, true, nil
	}
	if !add {
		return 0, false, nil
	}
	newID, err := qs.nextValueID(ctx, tx, c)
	if err != nil {
		return 0, false, err
	}
	p := &Primitive{ID: newID, Refs: 1, Kind: contentValue, Value: v}
	if err := qs.putPrimitive(tx, p); err != nil {
		return 0, false, err
	}
	if err := tx.Put(hashIndexKey(h), uint64key(newID)); err != nil {
		return 0, false, err
	}
	qs.mu.Lock()
	qs.bloom.Add(bloomKey(h))
	qs.mu.Unlock()
	qs.valueLRU.Put(lruKey(h), newID)
	return newID, true, nil
}

// resolveQuad interns every direction of q. ok is false if add is false and
// any direction has never been interned.
func (qs *QuadStore) resolveQuad(ctx context.Context, tx Tx, q quad.Quad, add bool, c *counters) (quad.InternalQuad, bool, error) {
	var iq quad.InternalQuad
	for _, d := range quad.Directions {
		id, ok, err := qs.resolveVal(ctx, tx, q.Get(d), add, c)
		if err != nil {
			return iq, false, err
		}
		if !ok {
			return iq, false, nil
		}
		iq = iq.Set(d, id)
	}
	return iq, true, nil
}

// findQuad resolves q's directions without interning and reports whether
// the quad itself has already been stored.
func (qs *QuadStore) findQuad(ctx context.Context, tx Tx, q quad.Quad, c *counters) (uint64, quad.InternalQuad, error) {
	iq, ok, err := qs.resolveQuad(ctx, tx, q, false, c)
	if err != nil || !ok {
		return 0, iq, err
	}
	id, err := qs.lookupHash(ctx, tx, quadHash(iq))
	return id, iq, err
}

// --- refs.Namer ------------------------------------------------------------

func (qs *QuadStore) ValueOf(v quad.Value) graph.Ref {
	var out graph.Ref
	_ = View(context.Background(), qs.db, func(tx Tx) error {
		var c counters
		id, ok, err := qs.resolveVal(context.Background(), tx, v, false, &c)
		if err != nil || !ok || id == 0 {
			return err
		}
		out = refs.RefOfValue(id, v)
		return nil
	})
	return out
}

func (qs *QuadStore) NameOf(ref graph.Ref) quad.Value {
	if !ref.HasKey {
		return quad.None
	}
	if ref.Content == refs.ContentValue {
		return ref.Value
	}
	var out quad.Value
	_ = View(context.Background(), qs.db, func(tx Tx) error {
		p, err := qs.getPrimitive(context.Background(), tx, ref.Key)
		if err != nil || p == nil {
			return err
		}
		out = p.Value
		return nil
	})
	return out
}

// --- graph.QuadIndexer -------------------------------------------------------

func (qs *QuadStore) Quad(ref graph.Ref) quad.Quad {
	if !ref.HasKey {
		return quad.Quad{}
	}
	var iq quad.InternalQuad
	if ref.Content == refs.ContentInternalQuad {
		iq = ref.InternalQuad
	} else {
		_ = View(context.Background(), qs.db, func(tx Tx) error {
			p, err := qs.getPrimitive(context.Background(), tx, ref.Key)
			if err != nil || p == nil {
				return err
			}
			iq = p.Quad
			return nil
		})
	}
	var q quad.Quad
	for _, d := range quad.Directions {
		id := iq.Get(d)
		if id == 0 {
			// id 0 never names a real primitive: it is the sentinel for an
			// absent label, never materialized into any index entry.
			q = q.Set(d, quad.None)
			continue
		}
		q = q.Set(d, qs.NameOf(refs.RefOfKey(id)))
	}
	return q
}

func (qs *QuadStore) QuadDirection(id graph.Ref, d quad.Direction) graph.Ref {
	if !id.HasKey {
		return graph.Ref{}
	}
	var iq quad.InternalQuad
	if id.Content == refs.ContentInternalQuad {
		iq = id.InternalQuad
	} else {
		_ = View(context.Background(), qs.db, func(tx Tx) error {
			p, err := qs.getPrimitive(context.Background(), tx, id.Key)
			if err != nil || p == nil {
				return err
			}
			iq = p.Quad
			return nil
		})
	}
	slot := iq.Get(d)
	if slot == 0 {
		// Zero Ref for an empty slot (e.g. a missing label). A quad that
		// is not found also yields the zero Ref: the two cases are not
		// distinguished.
		return refs.Ref{}
	}
	return refs.RefOfKey(slot)
}

func (qs *QuadStore) QuadIterator(d quad.Direction, v graph.Ref) shape.Shape {
	if !v.HasKey || v.Key == 0 {
		return Null{}
	}
	return newQuadIdsShape(qs, d, v.Key)
}

func (qs *QuadStore) QuadIteratorSize(ctx context.Context, d quad.Direction, v graph.Ref) (refs.Size, error) {
	var size refs.Size
	err := View(ctx, qs.db, func(tx Tx) error {
		n := 0
		if e := Each(ctx, tx, dirIndexPrefix(d, v.Key), func(k, val []byte) error {
			n++
			return nil
		}); e != nil {
			return e
		}
		size = refs.Size{Value: int64(n), Exact: true}
		return nil
	})
	return size, err
}

func (qs *QuadStore) Stats(ctx context.Context, exact bool) (graph.Stats, error) {
	var st graph.Stats
	err := View(ctx, qs.db, func(tx Tx) error {
		c, err := qs.readCounters(ctx, tx)
		if err != nil {
			return err
		}
		st.Nodes = refs.Size{Value: int64(c.Values), Exact: true}
		st.Quads = refs.Size{Value: int64(c.Quads), Exact: true}
		return nil
	})
	if err == nil {
		qs.recordStats(st)
	}
	return st, err
}

// --- graph.QuadStore: mutation --------------------------------------------

// ApplyDeltas applies in as a single transaction, validating every delta
// before mutating any of them unless both Ignore flags make validation
// unnecessary.
func (qs *QuadStore) ApplyDeltas(in []graph.Delta, opts graph.IgnoreOpts) error {
	ctx := context.Background()
	defer qs.timeApply()()

	err := Update(ctx, qs.db, func(tx Tx) error {
		c, err := qs.readCounters(ctx, tx)
		if err != nil {
			return err
		}

		if !(opts.IgnoreDup && opts.IgnoreMissing) {
			for _, d := range in {
				if err := qs.validateDelta(ctx, tx, d, opts, &c); err != nil {
					return err
				}
			}
		}

		for _, d := range in {
			if err := qs.applyDelta(ctx, tx, d, opts, &c); err != nil {
				return err
			}
			if d.Action == graph.Add {
				qs.recordDelta("add")
			} else {
				qs.recordDelta("delete")
			}
		}

		return tx.Put(counterKey, c.encode())
	})
	if err != nil {
		qs.recordApplyFailure()
	}
	return err
}

func (qs *QuadStore) validateDelta(ctx context.Context, tx Tx, d graph.Delta, opts graph.IgnoreOpts, c *counters) error {
	id, _, err := qs.findQuad(ctx, tx, d.Quad, c)
	if err != nil {
		return err
	}
	switch d.Action {
	case graph.Add:
		if id != 0 && !opts.IgnoreDup {
			return &graph.DeltaError{Delta: d, Err: graph.ErrQuadExists}
		}
	case graph.Delete:
		if id == 0 && !opts.IgnoreMissing {
			return &graph.DeltaError{Delta: d, Err: graph.ErrQuadNotExist}
		}
	default:
		return &graph.DeltaError{Delta: d, Err: graph.ErrInvalidAction}
	}
	return nil
}

func (qs *QuadStore) applyDelta(ctx context.Context, tx Tx, d graph.Delta, opts graph.IgnoreOpts, c *counters) error {
	switch d.Action {
	case graph.Add:
		return qs.addQuad(ctx, tx, d, opts, c)
	case graph.Delete:
		return qs.deleteQuad(ctx, tx, d, opts, c)
	default:
		return &graph.DeltaError{Delta: d, Err: graph.ErrInvalidAction}
	}
}

func (qs *QuadStore) addQuad(ctx context.Context, tx Tx, d graph.Delta, opts graph.IgnoreOpts, c *counters) error {
	existing, _, err := qs.findQuad(ctx, tx, d.Quad, c)
	if err != nil {
		return err
	}
	if existing != 0 {
		if opts.IgnoreDup {
			return nil
		}
		return &graph.DeltaError{Delta: d, Err: graph.ErrQuadExists}
	}

	iq, ok, err := qs.resolveQuad(ctx, tx, d.Quad, true, c)
	if err != nil {
		return err
	}
	if !ok {
		return &graph.DeltaError{Delta: d, Err: graph.ErrNodeNotExists}
	}

	id, err := qs.nextQuadID(ctx, tx, c)
	if err != nil {
		return err
	}
	p := &Primitive{ID: id, Refs: 1, Kind: contentQuad, Quad: iq}
	if err := qs.putPrimitive(tx, p); err != nil {
		return err
	}
	h := quadHash(iq)
	if err := tx.Put(hashIndexKey(h), uint64key(id)); err != nil {
		return err
	}
	qs.mu.Lock()
	qs.bloom.Add(bloomKey(h))
	qs.mu.Unlock()
	for _, dir := range quad.Directions {
		if v := iq.Get(dir); v != 0 {
			if err := tx.Put(dirIndexKey(dir, v, id), []byte{}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (qs *QuadStore) deleteQuad(ctx context.Context, tx Tx, d graph.Delta, opts graph.IgnoreOpts, c *counters) error {
	id, iq, err := qs.findQuad(ctx, tx, d.Quad, c)
	if err != nil {
		return err
	}
	if id == 0 {
		if opts.IgnoreMissing {
			return nil
		}
		return &graph.DeltaError{Delta: d, Err: graph.ErrQuadNotExist}
	}

	if err := tx.Del(primitiveKey(id)); err != nil {
		return err
	}
	qh := quadHash(iq)
	if err := tx.Del(hashIndexKey(qh)); err != nil {
		return err
	}
	qs.valueLRU.Del(lruKey(qh))
	c.Quads--
	for _, dir := range quad.Directions {
		v := iq.Get(dir)
		if v == 0 {
			continue
		}
		if err := tx.Del(dirIndexKey(dir, v, id)); err != nil {
			return err
		}
		if err := qs.releaseValue(ctx, tx, v, c); err != nil {
			return err
		}
	}
	return nil
}

// releaseValue decrements a value primitive's refcount, reclaiming it (and
// its hash index entry, and the values counter) once nothing references it
// any more.
func (qs *QuadStore) releaseValue(ctx context.Context, tx Tx, id uint64, c *counters) error {
	p, err := qs.getPrimitive(ctx, tx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if p.Refs <= 1 {
		if err := tx.Del(primitiveKey(id)); err != nil {
			return err
		}
		h := p.Value.Hash()
		qs.valueLRU.Del(lruKey(h))
		c.Values--
		return tx.Del(hashIndexKey(h))
	}
	p.Refs--
	return qs.putPrimitive(tx, p)
}

// --- graph.QuadStore: iterators & writer ------------------------------------

func (qs *QuadStore) NodesAllIterator() shape.Shape {
	return newAllShape(qs, true)
}

func (qs *QuadStore) QuadsAllIterator() shape.Shape {
	return newAllShape(qs, false)
}

func (qs *QuadStore) Close() error {
	return qs.db.Close()
}

func (qs *QuadStore) NewQuadWriter() (quad.WriteCloser, error) {
	return &batchWriter{qs: qs}, nil
}

type batchWriter struct {
	qs  *QuadStore
	buf []graph.Delta
}

func (w *batchWriter) WriteQuad(q quad.Quad) error {
	w.buf = append(w.buf, graph.Delta{Quad: q, Action: graph.Add})
	if len(w.buf) >= quad.DefaultBatch {
		return w.Close()
	}
	return nil
}

// WriteQuads flushes any buffered quad first, then applies buf directly as
// one transaction, letting callers that already batch (e.g. the bulk
// loader) avoid going through the single-quad buffer at all.
func (w *batchWriter) WriteQuads(buf []quad.Quad) (int, error) {
	if err := w.Close(); err != nil {
		return 0, err
	}
	deltas := make([]graph.Delta, len(buf))
	for i, q := range buf {
		deltas[i] = graph.Delta{Quad: q, Action: graph.Add}
	}
	if err := w.qs.ApplyDeltas(deltas, graph.IgnoreOpts{IgnoreDup: true}); err != nil {
		return 0, err
	}
	return len(buf), nil
}

func (w *batchWriter) Close() error {
	if len(w.buf) == 0 {
		return nil
	}
	err := w.qs.ApplyDeltas(w.buf, graph.IgnoreOpts{IgnoreDup: true})
	w.buf = w.buf[:0]
	return err
}
