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

package quad

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid    = errors.New("quad: invalid quad")
	ErrIncomplete = errors.New("quad: incomplete quad")
)

// Direction identifies one of the four node slots of a quad. Label is the
// one slot that may legitimately be None: a quad without a named graph uses
// the empty Label as a sentinel, never a separate nil encoding.
type Direction byte

const (
	Any Direction = iota
	Subject
	Predicate
	Object
	Label
)

// Directions lists the four slots in their on-disk order.
var Directions = [...]Direction{Subject, Predicate, Object, Label}

func (d Direction) String() string {
	switch d {
	case Any:
		return "any"
	case Subject:
		return "subject"
	case Predicate:
		return "predicate"
	case Object:
		return "object"
	case Label:
		return "label"
	default:
		return fmt.Sprintf("Direction(%d)", byte(d))
	}
}

// Byte returns the single-byte tag used inside direction-index keys.
func (d Direction) Byte() byte { return byte(d) }

// Quad is a single subject/predicate/object/label statement expressed in
// terms of Values rather than interned ids.
type Quad struct {
	Subject   Value
	Predicate Value
	Object    Value
	Label     Value
}

// Make builds a Quad out of raw N-Quads-style tokens.
func Make(s, p, o, l string) Quad {
	q := Quad{
		Subject:   FromToken(s),
		Predicate: FromToken(p),
		Object:    FromToken(o),
	}
	if l != "" {
		q.Label = FromToken(l)
	}
	return q
}

// Get returns the Value held in the given direction.
func (q Quad) Get(d Direction) Value {
	switch d {
	case Subject:
		return q.Subject
	case Predicate:
		return q.Predicate
	case Object:
		return q.Object
	case Label:
		return q.Label
	default:
		return None
	}
}

// Set returns a copy of q with the given direction replaced.
func (q Quad) Set(d Direction, v Value) Quad {
	switch d {
	case Subject:
		q.Subject = v
	case Predicate:
		q.Predicate = v
	case Object:
		q.Object = v
	case Label:
		q.Label = v
	}
	return q
}

// IsValid reports whether every required direction is populated; Label may
// remain the zero Value.
func (q Quad) IsValid() bool {
	return q.Subject.Kind != KindNone && q.Predicate.Kind != KindNone && q.Object.Kind != KindNone
}

func (q Quad) String() string {
	if q.Label.Kind == KindNone {
		return fmt.Sprintf("%s %s %s .", q.Subject, q.Predicate, q.Object)
	}
	return fmt.Sprintf("%s %s %s %s .", q.Subject, q.Predicate, q.Object, q.Label)
}

// InternalQuad is a quad expressed in terms of interned primitive ids, as
// stored inside a quad-kind Primitive's body.
type InternalQuad struct {
	Subject   uint64
	Predicate uint64
	Object    uint64
	Label     uint64
}

// Get returns the id held in the given direction.
func (q InternalQuad) Get(d Direction) uint64 {
	switch d {
	case Subject:
		return q.Subject
	case Predicate:
		return q.Predicate
	case Object:
		return q.Object
	case Label:
		return q.Label
	default:
		return 0
	}
}

// Set returns a copy of q with the given direction replaced.
func (q InternalQuad) Set(d Direction, id uint64) InternalQuad {
	switch d {
	case Subject:
		q.Subject = id
	case Predicate:
		q.Predicate = id
	case Object:
		q.Object = id
	case Label:
		q.Label = id
	}
	return q
}
