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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/graph/refs"
	"github.com/gizmograph/gizmodb/quad"
)

func testQuads() []quad.Quad {
	return []quad.Quad{
		quad.Make("A", "follows", "B", ""),
		quad.Make("C", "follows", "B", ""),
		quad.Make("C", "follows", "D", ""),
		quad.Make("D", "follows", "B", ""),
		quad.Make("B", "status", "cool", "status_graph"),
		quad.Make("D", "status", "cool", "status_graph"),
	}
}

func newTestStore(t testing.TB) *QuadStore {
	qs := New(newMemKV())
	t.Cleanup(func() { _ = qs.Close() })
	return qs
}

// TestInsertionIdempotentUnderIgnoreDup verifies that re-adding an existing
// quad with IgnoreDup leaves the store's quad count unchanged.
func TestInsertionIdempotentUnderIgnoreDup(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	q := quad.Make("A", "follows", "B", "")

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, graph.IgnoreOpts{}))
	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, graph.IgnoreOpts{IgnoreDup: true}))

	st, err := qs.Stats(ctx, true)
	require.NoError(t, err)
	require.EqualValues(t, 1, st.Quads.Value)
}

// TestInsertionWithoutIgnoreDupFails verifies that a second add is rejected
// with ErrQuadExists when IgnoreDup isn't set.
func TestInsertionWithoutIgnoreDupFails(t *testing.T) {
	qs := newTestStore(t)
	q := quad.Make("A", "follows", "B", "")

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, graph.IgnoreOpts{}))
	err := qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, graph.IgnoreOpts{})
	require.True(t, graph.IsQuadExist(err))
}

// TestDeleteInvertsAdd verifies that deleting a just-added quad restores the
// store to its prior state: no quads, and no surviving value primitives.
func TestDeleteInvertsAdd(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	q := quad.Make("A", "follows", "B", "")

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, graph.IgnoreOpts{}))
	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Delete}}, graph.IgnoreOpts{}))

	st, err := qs.Stats(ctx, true)
	require.NoError(t, err)
	require.EqualValues(t, 0, st.Quads.Value)
	require.EqualValues(t, 0, st.Nodes.Value)

	require.False(t, qs.ValueOf(quad.FromToken("A")).HasKey)
	require.False(t, qs.ValueOf(quad.FromToken("B")).HasKey)
}

// TestDeleteMissingFailsWithoutIgnoreMissing verifies that deleting a quad
// that was never added is rejected unless IgnoreMissing is set.
func TestDeleteMissingFailsWithoutIgnoreMissing(t *testing.T) {
	qs := newTestStore(t)
	q := quad.Make("A", "follows", "B", "")

	err := qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Delete}}, graph.IgnoreOpts{})
	require.True(t, graph.IsQuadNotExist(err))

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Delete}}, graph.IgnoreOpts{IgnoreMissing: true}))
}

// TestRefcountSurvivesPartialDelete verifies that a value shared by two
// quads keeps its primitive until both referencing quads are gone, and that
// its interned id is stable across that window.
func TestRefcountSurvivesPartialDelete(t *testing.T) {
	qs := newTestStore(t)
	shared := quad.Make("A", "knows", "B", "")
	other := quad.Make("A", "knows", "C", "")

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{
		{Quad: shared, Action: graph.Add},
		{Quad: other, Action: graph.Add},
	}, graph.IgnoreOpts{}))

	aRef := qs.ValueOf(quad.FromToken("A"))
	require.True(t, aRef.HasKey)

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: shared, Action: graph.Delete}}, graph.IgnoreOpts{}))

	aRef2 := qs.ValueOf(quad.FromToken("A"))
	require.True(t, aRef2.HasKey)
	require.Equal(t, aRef.Key, aRef2.Key)

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{{Quad: other, Action: graph.Delete}}, graph.IgnoreOpts{}))
	require.False(t, qs.ValueOf(quad.FromToken("A")).HasKey)
}

// TestScanCompletenessQuadIterator verifies that a direction scan surfaces
// exactly the quads touching that (direction, value) pair, no more, no less.
func TestScanCompletenessQuadIterator(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	deltas := make([]graph.Delta, 0, len(testQuads()))
	for _, q := range testQuads() {
		deltas = append(deltas, graph.Delta{Quad: q, Action: graph.Add})
	}
	require.NoError(t, qs.ApplyDeltas(deltas, graph.IgnoreOpts{}))

	bRef := qs.ValueOf(quad.FromToken("B"))
	require.True(t, bRef.HasKey)

	it := qs.QuadIterator(quad.Object, bRef).Iterate()
	defer it.Close()

	var found []quad.Quad
	for it.Next(ctx) {
		found = append(found, qs.Quad(it.Result()))
	}
	require.NoError(t, it.Err())

	// A->B, C->B, D->B all have "B" as object; the status quads have "cool".
	require.Len(t, found, 3)
	for _, q := range found {
		require.Equal(t, quad.String("B"), q.Object)
	}
}

// TestQuadIteratorSizeMatchesScan verifies that the reported size of a
// direction iterator equals the number of quads a full scan surfaces.
func TestQuadIteratorSizeMatchesScan(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	deltas := make([]graph.Delta, 0, len(testQuads()))
	for _, q := range testQuads() {
		deltas = append(deltas, graph.Delta{Quad: q, Action: graph.Add})
	}
	require.NoError(t, qs.ApplyDeltas(deltas, graph.IgnoreOpts{}))

	bRef := qs.ValueOf(quad.FromToken("B"))
	require.True(t, bRef.HasKey)

	size, err := qs.QuadIteratorSize(ctx, quad.Object, bRef)
	require.NoError(t, err)
	require.True(t, size.Exact)

	it := qs.QuadIterator(quad.Object, bRef).Iterate()
	defer it.Close()
	var n int64
	for it.Next(ctx) {
		n++
	}
	require.Equal(t, n, size.Value)
}

// TestQuadIteratorOnUnknownValueIsNull verifies that QuadIterator on a Ref
// with no key returns the empty Null shape rather than scanning anything.
func TestQuadIteratorOnUnknownValueIsNull(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	it := qs.QuadIterator(quad.Subject, refs.Ref{}).Iterate()
	defer it.Close()
	require.False(t, it.Next(ctx))
	require.NoError(t, it.Err())
}

// TestAllIteratorPartitionsNodesAndQuads verifies that NodesAllIterator and
// QuadsAllIterator together surface every primitive exactly once, split by
// kind, even though their Stats() report the same, unfiltered total.
func TestAllIteratorPartitionsNodesAndQuads(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	deltas := make([]graph.Delta, 0, len(testQuads()))
	for _, q := range testQuads() {
		deltas = append(deltas, graph.Delta{Quad: q, Action: graph.Add})
	}
	require.NoError(t, qs.ApplyDeltas(deltas, graph.IgnoreOpts{}))

	st, err := qs.Stats(ctx, true)
	require.NoError(t, err)

	nodeIt := qs.NodesAllIterator().Iterate()
	defer nodeIt.Close()
	var nodes int64
	for nodeIt.Next(ctx) {
		nodes++
	}
	require.Equal(t, st.Nodes.Value, nodes)

	quadIt := qs.QuadsAllIterator().Iterate()
	defer quadIt.Close()
	var quads int64
	for quadIt.Next(ctx) {
		quads++
	}
	require.Equal(t, st.Quads.Value, quads)

	// Stats() is the sum over both kinds, an intentional over-approximation
	// relative to either iterator alone, documented on allShape.Stats.
	nodesCosts, err := qs.NodesAllIterator().Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, st.Nodes.Value+st.Quads.Value, nodesCosts.Size.Value)
}

// TestResolveValLRUAndBloomAgreeWithStorage verifies that repeated
// resolution of the same value is stable and consistent whether served from
// the LRU cache, the bloom-gated hash index, or a disk miss.
func TestResolveValLRUAndBloomAgreeWithStorage(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, qs.ApplyDeltas([]graph.Delta{
		{Quad: quad.Make("A", "p", "B", ""), Action: graph.Add},
	}, graph.IgnoreOpts{}))

	first := qs.ValueOf(quad.FromToken("A"))
	require.True(t, first.HasKey)

	// Evict "A" from the LRU to force the bloom+hash-index path, then
	// confirm the id resolved is unchanged.
	h := quad.FromToken("A").Hash()
	qs.valueLRU.Del(lruKey(h))

	second := qs.ValueOf(quad.FromToken("A"))
	require.True(t, second.HasKey)
	require.Equal(t, first.Key, second.Key)

	// A value that was never interned must report a bloom-negative and
	// resolve to the zero Ref, not a false hit.
	require.False(t, qs.ValueOf(quad.String("never-interned")).HasKey)

	_ = ctx
}

// TestContainsAgreesWithNext verifies that a direction scanner's Contains
// reports true for exactly the ids its own Next enumerates.
func TestContainsAgreesWithNext(t *testing.T) {
	qs := newTestStore(t)
	ctx := context.Background()
	deltas := make([]graph.Delta, 0, len(testQuads()))
	for _, q := range testQuads() {
		deltas = append(deltas, graph.Delta{Quad: q, Action: graph.Add})
	}
	require.NoError(t, qs.ApplyDeltas(deltas, graph.IgnoreOpts{}))

	bRef := qs.ValueOf(quad.FromToken("B"))
	require.True(t, bRef.HasKey)

	shape := qs.QuadIterator(quad.Object, bRef)
	it := shape.Iterate()
	var ids []refs.Ref
	for it.Next(ctx) {
		ids = append(ids, it.Result())
	}
	it.Close()
	require.NotEmpty(t, ids)

	idx := shape.Lookup()
	defer idx.Close()
	for _, id := range ids {
		require.True(t, idx.Contains(ctx, id))
	}

	cRef := qs.ValueOf(quad.FromToken("C"))
	require.True(t, cRef.HasKey)
	require.False(t, idx.Contains(ctx, cRef))
}
