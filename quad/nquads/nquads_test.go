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

package nquads

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizmograph/gizmodb/quad"
)

func TestReadQuad(t *testing.T) {
	in := `<http://a> <http://b> "c" .
# a comment
<http://a> <http://b> "c" <http://graph> .

`
	r := NewReader(strings.NewReader(in))
	q1, err := r.ReadQuad()
	require.NoError(t, err)
	require.Equal(t, quad.Make("<http://a>", "<http://b>", `"c"`, ""), q1)

	q2, err := r.ReadQuad()
	require.NoError(t, err)
	require.Equal(t, quad.Make("<http://a>", "<http://b>", `"c"`, "<http://graph>"), q2)

	_, err = r.ReadQuad()
	require.Equal(t, io.EOF, err)
}

func TestWriteQuad(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	q := quad.Make("<http://a>", "<http://b>", `"c"`, "")
	require.NoError(t, w.WriteQuad(q))
	require.Equal(t, "<http://a> <http://b> \"c\" .\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	q := quad.Make("<http://a>", "<http://b>", `"with space"`, "<http://g>")
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteQuad(q))

	got, err := NewReader(&buf).ReadQuad()
	require.NoError(t, err)
	require.Equal(t, q, got)
}
