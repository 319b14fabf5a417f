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

// Package nquads implements a line-based, N-Quads-flavored syntax for
// reading and writing quad files: one quad per line, space-separated
// tokens, terminated with a trailing period.
package nquads

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gizmograph/gizmodb/quad"
)

func init() {
	quad.RegisterFormat(quad.Format{
		Name: "nquads",
		Ext:  []string{".nq", ".nt"},
		Mime: []string{"application/n-quads", "application/n-triples"},
		Reader: func(r io.Reader) quad.ReadCloser {
			return NewReader(r)
		},
		Writer: func(w io.Writer) quad.WriteCloser { return NewWriter(w) },
	})
}

// Reader parses one quad per line: subject, predicate, object and an
// optional label, space-separated and ending in a bare ".".
type Reader struct {
	r    *bufio.Reader
	line []byte
}

// NewReader returns a quad decoder reading lines from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadQuad returns the next valid quad, or io.EOF once the stream is
// exhausted. Blank lines and lines starting with "#" are skipped.
func (dec *Reader) ReadQuad() (quad.Quad, error) {
	for {
		dec.line = dec.line[:0]
		for {
			l, pre, err := dec.r.ReadLine()
			if err != nil {
				return quad.Quad{}, err
			}
			dec.line = append(dec.line, l...)
			if !pre {
				break
			}
		}
		line := bytes.TrimSpace(dec.line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		q, err := parseLine(string(line))
		if err != nil {
			return quad.Quad{}, fmt.Errorf("nquads: failed to parse %q: %v", line, err)
		}
		if !q.IsValid() {
			continue
		}
		return q, nil
	}
}

func (dec *Reader) Close() error { return nil }

// parseLine splits a line into up to four whitespace-separated tokens,
// dropping the trailing "." terminator, and classifies each one via
// quad.FromToken.
func parseLine(line string) (quad.Quad, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ".")
	line = strings.TrimSpace(line)
	toks, err := splitTokens(line)
	if err != nil {
		return quad.Quad{}, err
	}
	if len(toks) != 3 && len(toks) != 4 {
		return quad.Quad{}, quad.ErrIncomplete
	}
	label := ""
	if len(toks) == 4 {
		label = toks[3]
	}
	return quad.Make(toks[0], toks[1], toks[2], label), nil
}

// splitTokens splits on unquoted, unbracketed whitespace so that values
// like `"a b c"` or `<http://x/y z>` survive as a single token.
func splitTokens(line string) ([]string, error) {
	var toks []string
	var buf strings.Builder
	var inQuote, inIRI bool
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, buf.String())
			buf.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"' && !inIRI:
			inQuote = !inQuote
			buf.WriteRune(r)
		case r == '<' && !inQuote:
			inIRI = true
			buf.WriteRune(r)
		case r == '>' && !inQuote:
			inIRI = false
			buf.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote && !inIRI:
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	if inQuote || inIRI {
		return nil, fmt.Errorf("unterminated token in %q", line)
	}
	return toks, nil
}

// NewWriter returns a quad encoder that writes its output to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Writer writes one quad per line in the same token format Reader parses.
type Writer struct {
	w   io.Writer
	err error
}

func (enc *Writer) writeValue(v quad.Value) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write([]byte(v.String() + " "))
}

func (enc *Writer) WriteQuad(q quad.Quad) error {
	enc.writeValue(q.Subject)
	enc.writeValue(q.Predicate)
	enc.writeValue(q.Object)
	if q.Label.Kind != quad.KindNone {
		enc.writeValue(q.Label)
	}
	if enc.err != nil {
		return enc.err
	}
	_, enc.err = enc.w.Write([]byte(".\n"))
	return enc.err
}

func (enc *Writer) Close() error { return enc.err }
