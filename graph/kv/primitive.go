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
	"encoding/binary"
	"errors"

	"github.com/gizmograph/gizmodb/quad"
)

// contentKind tags what a Primitive's body holds.
type contentKind byte

const (
	contentValue contentKind = 0
	contentQuad  contentKind = 1
)

// Primitive is the single unit of storage: either an interned value or an
// interned quad, identified by id and refcounted so it can be reclaimed
// once nothing points at it any more.
type Primitive struct {
	ID   uint64
	Refs uint64

	Kind  contentKind
	Value quad.Value
	Quad  quad.InternalQuad
}

// IsNode reports whether this primitive holds a value rather than a quad.
func (p *Primitive) IsNode() bool { return p.Kind == contentValue }

// GetDirection returns the interned id stored in the given direction of a
// quad-kind primitive, or 0 if p is a value.
func (p *Primitive) GetDirection(d quad.Direction) uint64 {
	if p.Kind != contentQuad {
		return 0
	}
	return p.Quad.Get(d)
}

// SetDirection sets the interned id stored in the given direction.
func (p *Primitive) SetDirection(d quad.Direction, id uint64) {
	p.Quad = p.Quad.Set(d, id)
}

// IsSameLink reports whether p and q name the same four directions,
// ignoring id and refcount.
func (p *Primitive) IsSameLink(q quad.InternalQuad) bool {
	return p.Kind == contentQuad && p.Quad == q
}

// Encode writes id ‖ refs ‖ content-kind ‖ body, all integers big-endian.
func (p *Primitive) Encode() []byte {
	buf := make([]byte, 17)
	binary.BigEndian.PutUint64(buf[0:8], p.ID)
	binary.BigEndian.PutUint64(buf[8:16], p.Refs)
	switch p.Kind {
	case contentValue:
		buf[16] = byte(contentValue)
		buf = append(buf, p.Value.Encode()...)
	case contentQuad:
		buf[16] = byte(contentQuad)
		iq := make([]byte, 32)
		binary.BigEndian.PutUint64(iq[0:8], p.Quad.Subject)
		binary.BigEndian.PutUint64(iq[8:16], p.Quad.Predicate)
		binary.BigEndian.PutUint64(iq[16:24], p.Quad.Object)
		binary.BigEndian.PutUint64(iq[24:32], p.Quad.Label)
		buf = append(buf, iq...)
	}
	return buf
}

var errShortPrimitive = errors.New("kv: truncated primitive record")

// DecodePrimitive parses the bytes written by Primitive.Encode.
func DecodePrimitive(b []byte) (*Primitive, error) {
	if len(b) < 17 {
		return nil, errShortPrimitive
	}
	p := &Primitive{
		ID:   binary.BigEndian.Uint64(b[0:8]),
		Refs: binary.BigEndian.Uint64(b[8:16]),
	}
	body := b[17:]
	switch b[16] {
	case byte(contentValue):
		p.Kind = contentValue
		p.Value = quad.DecodeValue(body)
	case byte(contentQuad):
		if len(body) < 32 {
			return nil, errShortPrimitive
		}
		p.Kind = contentQuad
		p.Quad = quad.InternalQuad{
			Subject:   binary.BigEndian.Uint64(body[0:8]),
			Predicate: binary.BigEndian.Uint64(body[8:16]),
			Object:    binary.BigEndian.Uint64(body[16:24]),
			Label:     binary.BigEndian.Uint64(body[24:32]),
		}
	default:
		return nil, errShortPrimitive
	}
	return p, nil
}
