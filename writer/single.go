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

package writer

import (
	"context"

	"github.com/gizmograph/gizmodb/graph"
	"github.com/gizmograph/gizmodb/quad"
)

func init() {
	graph.RegisterWriter("single", NewSingleReplication)
}

// Single is the simplest QuadWriter: every call turns directly into one
// ApplyDeltas round trip against the backing QuadStore.
type Single struct {
	qs         graph.QuadStore
	ignoreOpts graph.IgnoreOpts
}

func NewSingle(qs graph.QuadStore, opts graph.IgnoreOpts) (graph.QuadWriter, error) {
	return &Single{
		qs:         qs,
		ignoreOpts: opts,
	}, nil
}

func NewSingleReplication(qs graph.QuadStore, opts graph.Options) (graph.QuadWriter, error) {
	ignoreMissing, err := opts.BoolKey("ignore_missing", graph.IgnoreMissing)
	if err != nil {
		return nil, err
	}
	ignoreDuplicate, err := opts.BoolKey("ignore_duplicate", graph.IgnoreDuplicates)
	if err != nil {
		return nil, err
	}
	return NewSingle(qs, graph.IgnoreOpts{
		IgnoreMissing: ignoreMissing,
		IgnoreDup:     ignoreDuplicate,
	})
}

func (s *Single) AddQuad(q quad.Quad) error {
	return s.qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Add}}, s.ignoreOpts)
}

func (s *Single) AddQuadSet(set []quad.Quad) error {
	deltas := make([]graph.Delta, len(set))
	for i, q := range set {
		deltas[i] = graph.Delta{Quad: q, Action: graph.Add}
	}
	return s.qs.ApplyDeltas(deltas, s.ignoreOpts)
}

func (s *Single) RemoveQuad(q quad.Quad) error {
	return s.qs.ApplyDeltas([]graph.Delta{{Quad: q, Action: graph.Delete}}, s.ignoreOpts)
}

// RemoveNode removes every quad that mentions v in any direction.
func (s *Single) RemoveNode(v quad.Value) error {
	gv := s.qs.ValueOf(v)
	if !gv.HasKey {
		return graph.ErrNodeNotExists
	}
	ctx := context.Background()
	var deltas []graph.Delta
	for _, d := range quad.Directions {
		shp := s.qs.QuadIterator(d, gv)
		scan := shp.Iterate()
		for scan.Next(ctx) {
			deltas = append(deltas, graph.Delta{
				Quad:   s.qs.Quad(scan.Result()),
				Action: graph.Delete,
			})
		}
		scan.Close()
	}
	return s.qs.ApplyDeltas(deltas, graph.IgnoreOpts{IgnoreMissing: true})
}

func (s *Single) Close() error {
	return nil
}

func (s *Single) ApplyTransaction(t *graph.Transaction) error {
	return s.qs.ApplyDeltas(t.Deltas, s.ignoreOpts)
}
