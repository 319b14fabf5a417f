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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizmograph/gizmodb/quad"
)

func TestPrimitiveValueRoundTrip(t *testing.T) {
	p := &Primitive{ID: 5, Refs: 3, Kind: contentValue, Value: quad.IRI("http://x")}
	got, err := DecodePrimitive(p.Encode())
	require.NoError(t, err)
	require.Equal(t, p, got)
	require.True(t, got.IsNode())
}

func TestPrimitiveQuadRoundTrip(t *testing.T) {
	iq := quad.InternalQuad{Subject: 1, Predicate: 2, Object: 3, Label: 4}
	p := &Primitive{ID: 9, Refs: 1, Kind: contentQuad, Quad: iq}
	got, err := DecodePrimitive(p.Encode())
	require.NoError(t, err)
	require.Equal(t, p, got)
	require.False(t, got.IsNode())
	require.True(t, got.IsSameLink(iq))
	require.False(t, got.IsSameLink(quad.InternalQuad{Subject: 1}))
}

func TestPrimitiveGetSetDirection(t *testing.T) {
	p := &Primitive{Kind: contentQuad}
	p.SetDirection(quad.Subject, 11)
	p.SetDirection(quad.Label, 0)
	require.EqualValues(t, 11, p.GetDirection(quad.Subject))
	require.EqualValues(t, 0, p.GetDirection(quad.Label))

	val := &Primitive{Kind: contentValue}
	require.EqualValues(t, 0, val.GetDirection(quad.Subject))
}

func TestDecodePrimitiveTruncatedErrors(t *testing.T) {
	_, err := DecodePrimitive(nil)
	require.Error(t, err)

	short := (&Primitive{ID: 1, Refs: 1, Kind: contentQuad, Quad: quad.InternalQuad{Subject: 1}}).Encode()
	_, err = DecodePrimitive(short[:len(short)-1])
	require.Error(t, err)
}
