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

// Package kvtest is a conformance suite shared by every kv.KV backend: it
// drives a QuadStore through the same lifecycle, refcount and stats
// scenarios regardless of what's underneath.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/kv"
	"github.com/gizmograph/gizmodb/quad"
)

// DatabaseFunc opens a fresh, empty backend for the duration of one test.
type DatabaseFunc func(t testing.TB) (kv.KV, func())

func quads() []quad.Quad {
	return []quad.Quad{
		quad.Make("A", "follows", "B", ""),
		quad.Make("C", "follows", "B", ""),
		quad.Make("C", "follows", "D", ""),
		quad.Make("D", "follows", "B", ""),
		quad.Make("B", "status", "cool", "status_graph"),
		quad.Make("D", "status", "cool", "status_graph"),
	}
}

// TestAll runs the full conformance suite against a backend produced by gen.
func TestAll(t *testing.T, gen DatabaseFunc) {
	t.Run("lifecycle", func(t *testing.T) { testLifecycle(t, gen) })
	t.Run("refcounts", func(t *testing.T) { testRefcounts(t, gen) })
	t.Run("label", func(t *testing.T) { testLabelSentinel(t, gen) })
}

func testLifecycle(t *testing.T, gen DatabaseFunc) {
	db, closer := gen(t)
	defer closer()
	qs := kv.New(db)
	defer qs.Close()
	ctx := context.Background()

	w, err := qs.NewQuadWriter()
	require.NoError(t, err)
	for _, q := range quads() {
		require.NoError(t, w.WriteQuad(q))
	}
	require.NoError(t, w.Close())

	st, err := qs.Stats(ctx, true)
	require.NoError(t, err)
	require.EqualValues(t, len(quads()), st.Quads.Value)

	v := qs.ValueOf(quad.FromToken("B"))
	require.True(t, v.HasKey)

	err = qs.ApplyDeltas([]graph.Delta{{Quad: quads()[0], Action: graph.Add}}, graph.IgnoreOpts{})
	require.True(t, graph.IsQuadExist(err))

	err = qs.ApplyDeltas([]graph.Delta{{Quad: quads()[0], Action: graph.Delete}}, graph.IgnoreOpts{})
	require.NoError(t, err)

	st, err = qs.Stats(ctx, true)
	require.NoError(t, err)
	require.EqualValues(t, len(quads())-1, st.Quads.Value)
}

func testRefcounts(t *testing.T, gen DatabaseFunc) {
	db, closer := gen(t)
	defer closer()
	qs := kv.New(db)
	defer qs.Close()

	shared := quad.Make("A", "knows", "B", "")
	other := quad.Make("A", "knows", "C", "")

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{
		{Quad: shared, Action: graph.Add},
		{Quad: other, Action: graph.Add},
	}, graph.IgnoreOpts{}))

	aRef := qs.ValueOf(quad.FromToken("A"))
	require.True(t, aRef.HasKey)

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: shared, Action: graph.Delete}}, graph.IgnoreOpts{}))

	// "A" is still referenced by other, so it must still resolve.
	aRef2 := qs.ValueOf(quad.FromToken("A"))
	require.True(t, aRef2.HasKey)
	require.Equal(t, aRef.Key, aRef2.Key)

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: other, Action: graph.Delete}}, graph.IgnoreOpts{}))

	// now nothing references "A" any more.
	aRef3 := qs.ValueOf(quad.FromToken("A"))
	require.False(t, aRef3.HasKey)
}

func testLabelSentinel(t *testing.T, gen DatabaseFunc) {
	db, closer := gen(t)
	defer closer()
	qs := kv.New(db)
	defer qs.Close()

	unlabeled := quad.Make("X", "rel", "Y", "")
	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: unlabeled, Action: graph.Add}}, graph.IgnoreOpts{}))

	ref := qs.ValueOf(quad.FromToken("X"))
	require.True(t, ref.HasKey)

	var found quad.Quad
	scan := qs.QuadIterator(quad.Subject, ref).Iterate()
	defer scan.Close()
	require.True(t, scan.Next(context.Background()))
	qref := scan.Result()
	found = qs.Quad(qref)
	require.Equal(t, quad.KindNone, found.Label.Kind)

	labelRef := qs.QuadDirection(qref, quad.Label)
	require.False(t, labelRef.HasKey)
}
