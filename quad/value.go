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

// Package quad defines the value and quad types stored by the graph, along
// with their wire encoding and content hashing.
package quad

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// NumberKind tags which representation a Number value carries.
type NumberKind byte

const (
	Float NumberKind = iota
	NegInt
	PosInt
)

// Number is a tagged numeric value. Only one of the fields is meaningful,
// selected by Kind.
type Number struct {
	Kind   NumberKind
	Float  float64
	NegInt int64
	PosInt uint64
}

func (n Number) String() string {
	switch n.Kind {
	case Float:
		return fmt.Sprintf("%v", n.Float)
	case NegInt:
		return fmt.Sprintf("%d", n.NegInt)
	default:
		return fmt.Sprintf("%d", n.PosInt)
	}
}

// Kind tags which variant a Value holds.
type Kind byte

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindNumber
	KindIRI
	KindString
)

// Value is the tagged union of node/literal payloads that can be interned
// into a Primitive. The zero Value is None.
type Value struct {
	Kind   Kind
	Bool   bool
	Number Number
	Str    string // IRI or String payload
}

// None is the empty, untyped value.
var None = Value{Kind: KindNone}

// Null is the explicit null literal.
var Null = Value{Kind: KindNull}

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func IRI(s string) Value { return Value{Kind: KindIRI, Str: s} }

func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Float64 builds a floating-point Value. f must be finite: NaN and ±Inf
// have no well-defined total ordering or equality, so they are rejected
// rather than silently interned. Use NewFloat64 when f comes from
// unvalidated input and the rejection needs to be handled as an error.
func Float64(f float64) Value {
	v, err := NewFloat64(f)
	if err != nil {
		return None
	}
	return v
}

// NewFloat64 builds a floating-point Value, rejecting NaN and ±Inf.
func NewFloat64(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("quad: non-finite float %v is not a valid value", f)
	}
	return Value{Kind: KindNumber, Number: Number{Kind: Float, Float: f}}, nil
}

func Int64(i int64) Value {
	return Value{Kind: KindNumber, Number: Number{Kind: NegInt, NegInt: i}}
}

func Uint64(u uint64) Value {
	return Value{Kind: KindNumber, Number: Number{Kind: PosInt, PosInt: u}}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return ""
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Number.String()
	case KindIRI:
		return "<" + v.Str + ">"
	case KindString:
		return `"` + v.Str + `"`
	default:
		return ""
	}
}

// Value encoding prefixes. A Primitive's value payload is always this single
// byte followed by the variant body; unrecognized prefixes decode to None,
// matching the earlier draft's decode behavior rather than erroring.
const (
	prefixNone     = 0
	prefixNull     = 1
	prefixBoolTrue = 2
	prefixBoolFals = 3
	prefixFloat    = 4
	prefixNegInt   = 5
	prefixPosInt   = 6
	prefixIRI      = 7
	prefixString   = 8
)

// Encode writes the single-byte-prefixed body for this value.
func (v Value) Encode() []byte {
	switch v.Kind {
	case KindNone:
		return []byte{prefixNone}
	case KindNull:
		return []byte{prefixNull}
	case KindBool:
		if v.Bool {
			return []byte{prefixBoolTrue}
		}
		return []byte{prefixBoolFals}
	case KindNumber:
		buf := make([]byte, 9)
		switch v.Number.Kind {
		case Float:
			buf[0] = prefixFloat
			binary.BigEndian.PutUint64(buf[1:], float64bits(v.Number.Float))
		case NegInt:
			buf[0] = prefixNegInt
			binary.BigEndian.PutUint64(buf[1:], uint64(v.Number.NegInt))
		default:
			buf[0] = prefixPosInt
			binary.BigEndian.PutUint64(buf[1:], v.Number.PosInt)
		}
		return buf
	case KindIRI:
		return append([]byte{prefixIRI}, v.Str...)
	case KindString:
		return append([]byte{prefixString}, v.Str...)
	default:
		return []byte{prefixNone}
	}
}

// DecodeValue parses the bytes produced by Value.Encode. An empty slice or
// an unrecognized prefix byte both decode to None.
func DecodeValue(b []byte) Value {
	if len(b) == 0 {
		return None
	}
	switch b[0] {
	case prefixNull:
		return Null
	case prefixBoolTrue:
		return BoolValue(true)
	case prefixBoolFals:
		return BoolValue(false)
	case prefixFloat:
		if len(b) < 9 {
			return None
		}
		return Float64(float64frombits(binary.BigEndian.Uint64(b[1:9])))
	case prefixNegInt:
		if len(b) < 9 {
			return None
		}
		return Int64(int64(binary.BigEndian.Uint64(b[1:9])))
	case prefixPosInt:
		if len(b) < 9 {
			return None
		}
		return Uint64(binary.BigEndian.Uint64(b[1:9]))
	case prefixIRI:
		return IRI(string(b[1:]))
	case prefixString:
		return String(string(b[1:]))
	default:
		return None
	}
}

func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}
func float64frombits(u uint64) float64 {
	return math.Float64frombits(u)
}

// Hash returns the content hash used by the hash index to deduplicate
// interned values. The variant name is mixed in ahead of the payload so that
// e.g. String("1") and IRI("1") never collide.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	switch v.Kind {
	case KindNone:
		h.Write([]byte("Value::None"))
	case KindNull:
		h.Write([]byte("Value::Null"))
	case KindBool:
		h.Write([]byte("Value::Bool"))
		if v.Bool {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case KindNumber:
		h.Write([]byte("Value::Number"))
		h.Write(v.Number.hashBytes())
	case KindIRI:
		h.Write([]byte("Value::IRI"))
		h.Write([]byte(v.Str))
	case KindString:
		h.Write([]byte("Value::String"))
		h.Write([]byte(v.Str))
	}
	return h.Sum64()
}

func (n Number) hashBytes() []byte {
	buf := make([]byte, 9)
	switch n.Kind {
	case Float:
		buf[0] = byte(Float)
		binary.BigEndian.PutUint64(buf[1:], float64bits(n.Float))
	case NegInt:
		buf[0] = byte(NegInt)
		binary.BigEndian.PutUint64(buf[1:], uint64(n.NegInt))
	default:
		buf[0] = byte(PosInt)
		binary.BigEndian.PutUint64(buf[1:], n.PosInt)
	}
	return buf
}

// FromToken converts an N-Quads-style token into a Value, following the
// same classification rules as the bulk loader's line parser: a quoted
// token becomes a String, an angle-bracketed token becomes an IRI, an empty
// token becomes the empty String, and anything else is taken as a bare
// String literal.
func FromToken(tok string) Value {
	if tok == "" {
		return String("")
	}
	if strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) && len(tok) >= 2 {
		return String(tok[1 : len(tok)-1])
	}
	if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") && len(tok) >= 2 {
		return IRI(tok[1 : len(tok)-1])
	}
	return String(tok)
}
