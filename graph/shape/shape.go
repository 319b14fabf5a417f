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

// Package shape defines the iterator algebra that backends expose over
// their stored quads: a Shape describes how a result set can be produced,
// either by scanning it in full or by looking individual values up.
package shape

import (
	"context"

	"github.com/gizmograph/gizmodb/graph/refs"
)

// IteratorBase is shared between Scanner and Index.
type IteratorBase interface {
	// Result returns the last value advanced to or matched.
	Result() refs.Ref
	// Err returns any error encountered during iteration.
	Err() error
	// Close releases any resources the iterator holds.
	Close() error
}

// Scanner lists every result in the set, not necessarily in sorted order.
type Scanner interface {
	IteratorBase

	// Next advances to the next result, available afterwards via Result.
	// It returns false once exhausted or on error; check Err to tell them
	// apart.
	Next(ctx context.Context) bool
}

// Index checks set membership without enumerating the whole set.
type Index interface {
	IteratorBase

	// Contains reports whether v is a member of the set, and if so sets
	// Result to the matching value.
	Contains(ctx context.Context, v refs.Ref) bool
}

// Costs summarizes the relative cost of scanning or probing a Shape, along
// with its reported Size. It is a heuristic meant to guide which branch of
// a query plan should scan and which should look up.
type Costs struct {
	ContainsCost int64
	NextCost     int64
	Size         refs.Size
}

// Shape is a plan for producing a result set: it can be instantiated either
// as a Scanner (enumerate) or an Index (probe), and may optionally rewrite
// itself into an equivalent, cheaper Shape.
type Shape interface {
	// String returns a short description, mostly useful for debugging.
	String() string

	// Iterate starts this shape in scanning mode. Caller must Close it.
	Iterate() Scanner

	// Lookup starts this shape in lookup mode. Caller must Close it.
	Lookup() Index

	// Stats reports the relative cost of Iterate/Lookup and the Size of
	// the result set.
	Stats(ctx context.Context) (Costs, error)

	// Optimize returns a cheaper equivalent Shape and true, or itself and
	// false if no rewrite applies.
	Optimize(ctx context.Context) (Shape, bool)

	// SubIterators returns the shapes this one is built from, if any.
	SubIterators() []Shape
}
