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

// Package load drives a bulk import: open a path (or stdin), transparently
// decompress it, decode it as a quad format, and stream the result into a
// quad.WriteCloser in batches.
package load

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gizmograph/gizmodb/clog"
	"github.com/gizmograph/gizmodb/internal/decompressor"
	"github.com/gizmograph/gizmodb/quad"
	_ "github.com/gizmograph/gizmodb/quad/nquads"
)

type readCloser struct {
	quad.ReadCloser
	close func() error
}

func (r readCloser) Close() error {
	err := r.ReadCloser.Close()
	if r.close != nil {
		if cerr := r.close(); err == nil {
			err = cerr
		}
	}
	return err
}

// QuadReaderFor opens path (or stdin, for "-"), decompresses it if needed,
// and picks a quad.Format either from typ or, failing that, from path's
// extension, defaulting to nquads.
func QuadReaderFor(path, typ string) (quad.ReadCloser, error) {
	var (
		r io.Reader
		c io.Closer
	)
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load: could not open %q: %v", path, err)
		}
		r, c = f, f
	}

	dr, err := decompressor.New(r)
	if err != nil {
		if c != nil {
			c.Close()
		}
		return nil, fmt.Errorf("load: could not detect compression of %q: %v", path, err)
	}

	format := quad.FormatByName(typ)
	if format == nil {
		name := filepath.Base(path)
		name = strings.TrimSuffix(name, ".gz")
		name = strings.TrimSuffix(name, ".bz2")
		format = quad.FormatByExt(filepath.Ext(name))
	}
	if format == nil {
		format = quad.FormatByName("nquads")
	}
	if format == nil || format.Reader == nil {
		if c != nil {
			c.Close()
		}
		return nil, fmt.Errorf("load: no reader registered for format %q", typ)
	}

	qr := format.Reader(dr)
	if c != nil {
		return readCloser{ReadCloser: qr, close: c.Close}, nil
	}
	return qr, nil
}

// batchLogger wraps a quad.BatchWriter, logging running progress at clog
// verbosity 2. It only sees quads that decoded successfully: it does not
// count or skip malformed lines, and a decode error from the reader ends
// the load.
type batchLogger struct {
	cnt     int
	skipped int
	w       quad.BatchWriter
}

func (w *batchLogger) WriteQuads(quads []quad.Quad) (int, error) {
	n, err := w.w.WriteQuads(quads)
	w.cnt += n
	if clog.V(2) {
		clog.Infof("load: wrote %d quads so far", w.cnt)
	}
	return n, err
}

// Options configures a bulk load.
type Options struct {
	// Format names a registered quad.Format; empty means "guess from path".
	Format string
	// Batch overrides quad.DefaultBatch when positive.
	Batch int
}

// Result summarizes one completed load.
type Result struct {
	Written int
}

// Load decompresses and decodes path, then streams every quad it contains
// into qw in batches, closing qw once the stream is exhausted.
func Load(qw quad.WriteCloser, path string, opts Options) (Result, error) {
	qr, err := QuadReaderFor(path, opts.Format)
	if err != nil {
		return Result{}, err
	}
	defer qr.Close()

	bw, ok := qw.(quad.BatchWriter)
	if !ok {
		bw = singleAsBatch{qw}
	}
	n, err := quad.CopyBatch(&batchLogger{w: bw}, qr, opts.Batch)
	if err != nil {
		return Result{Written: n}, fmt.Errorf("load: failed to load %q: %v", path, err)
	}
	if err := qw.Close(); err != nil {
		return Result{Written: n}, err
	}
	clog.Infof("load: finished %q: %d quads", path, n)
	return Result{Written: n}, nil
}

// singleAsBatch adapts a plain quad.Writer to quad.BatchWriter by writing
// one quad at a time, for writers that don't implement batching themselves.
type singleAsBatch struct {
	quad.WriteCloser
}

func (w singleAsBatch) WriteQuads(quads []quad.Quad) (int, error) {
	for i, q := range quads {
		if err := w.WriteQuad(q); err != nil {
			return i, err
		}
	}
	return len(quads), nil
}
