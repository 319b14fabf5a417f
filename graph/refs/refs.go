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

// Package refs defines the opaque reference type quad stores hand back to
// iterators, along with the Namer contract used to resolve it to and from
// quad.Value.
package refs

import (
	"context"

	"github.com/gizmograph/gizmodb/quad"
)

// Size describes an iterator or index's reported size. Exact is false when
// the number is an estimate rather than a precise count.
type Size struct {
	Value int64
	Exact bool
}

// RefContent tags what, if anything, a Ref carries inline without a round
// trip to the store.
type RefContent byte

const (
	ContentNone RefContent = iota
	ContentValue
	ContentQuad
	ContentInternalQuad
)

// Ref is the token quad stores use to identify an interned value or quad
// without committing to any particular backend representation. A Ref always
// carries the interned id when one has been assigned; it may additionally
// carry the Value, Quad or InternalQuad content inline so that callers can
// avoid a redundant lookup.
type Ref struct {
	HasKey  bool
	Key     uint64
	Content RefContent

	Value        quad.Value
	Quad         quad.Quad
	InternalQuad quad.InternalQuad
}

// RefOfKey builds a bare Ref around an interned id, with no inline content.
func RefOfKey(id uint64) Ref {
	return Ref{HasKey: true, Key: id}
}

// RefOfValue builds a Ref that carries its Value inline.
func RefOfValue(id uint64, v quad.Value) Ref {
	return Ref{HasKey: true, Key: id, Content: ContentValue, Value: v}
}

// RefOfQuad builds a Ref that carries its Quad inline.
func RefOfQuad(id uint64, q quad.Quad) Ref {
	return Ref{HasKey: true, Key: id, Content: ContentQuad, Quad: q}
}

// RefOfInternalQuad builds a Ref that carries its InternalQuad inline.
func RefOfInternalQuad(id uint64, iq quad.InternalQuad) Ref {
	return Ref{HasKey: true, Key: id, Content: ContentInternalQuad, InternalQuad: iq}
}

// Namer resolves interned values to and from their backing-store Ref.
type Namer interface {
	// ValueOf returns the Ref for a value already present in the store, or
	// the zero Ref if it has never been interned.
	ValueOf(v quad.Value) Ref
	// NameOf resolves a Ref back to the quad.Value it names.
	NameOf(v Ref) quad.Value
}

// BatchNamer is an optional Namer extension for resolving many values at
// once, which backends can implement to batch underlying lookups.
type BatchNamer interface {
	ValuesOf(ctx context.Context, refs []Ref) ([]quad.Value, error)
	RefsOf(ctx context.Context, nodes []quad.Value) ([]Ref, error)
}

// ValuesOf resolves a batch of Refs to Values, using BatchNamer when the
// Namer implements it and falling back to repeated NameOf calls otherwise.
func ValuesOf(ctx context.Context, qs Namer, vals []Ref) ([]quad.Value, error) {
	if bn, ok := qs.(BatchNamer); ok {
		return bn.ValuesOf(ctx, vals)
	}
	out := make([]quad.Value, len(vals))
	for i, v := range vals {
		out[i] = qs.NameOf(v)
	}
	return out, nil
}

// RefsOf resolves a batch of Values to Refs, using BatchNamer when the
// Namer implements it and falling back to repeated ValueOf calls otherwise.
func RefsOf(ctx context.Context, qs Namer, nodes []quad.Value) ([]Ref, error) {
	if bn, ok := qs.(BatchNamer); ok {
		return bn.RefsOf(ctx, nodes)
	}
	out := make([]Ref, len(nodes))
	for i, v := range nodes {
		out[i] = qs.ValueOf(v)
	}
	return out, nil
}

// QuadHash holds the four interned ids that make up a stored quad.
type QuadHash struct {
	Subject, Predicate, Object, Label uint64
}

// Get returns the id held in the given direction.
func (h QuadHash) Get(d quad.Direction) uint64 {
	switch d {
	case quad.Subject:
		return h.Subject
	case quad.Predicate:
		return h.Predicate
	case quad.Object:
		return h.Object
	case quad.Label:
		return h.Label
	default:
		return 0
	}
}

// Set returns a copy of h with the given direction replaced.
func (h QuadHash) Set(d quad.Direction, id uint64) QuadHash {
	switch d {
	case quad.Subject:
		h.Subject = id
	case quad.Predicate:
		h.Predicate = id
	case quad.Object:
		h.Object = id
	case quad.Label:
		h.Label = id
	}
	return h
}
