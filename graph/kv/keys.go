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

	"github.com/gizmograph/gizmodb/quad"
)

// Every key in the keyspace starts with one of these family bytes. Ordering
// the families this way keeps primitives, the hash index and the direction
// index in three contiguous runs, with the counter record sorting last.
const (
	familyPrimitive byte = 0x00
	familyHashIndex byte = 0x01
	familyDirIndex  byte = 0x02
	familyCounter   byte = 0xFF
)

// primitiveKey returns the key for the primitive with the given id.
func primitiveKey(id uint64) []byte {
	k := make([]byte, 9)
	k[0] = familyPrimitive
	binary.BigEndian.PutUint64(k[1:], id)
	return k
}

// hashIndexKey returns the key mapping a content hash to its primitive id.
func hashIndexKey(hash uint64) []byte {
	k := make([]byte, 9)
	k[0] = familyHashIndex
	binary.BigEndian.PutUint64(k[1:], hash)
	return k
}

// dirIndexKey returns the key recording that quad id appears in direction
// dir with the interned node valueID.
func dirIndexKey(dir quad.Direction, valueID, quadID uint64) []byte {
	k := make([]byte, 18)
	k[0] = familyDirIndex
	k[1] = dir.Byte()
	binary.BigEndian.PutUint64(k[2:10], valueID)
	binary.BigEndian.PutUint64(k[10:18], quadID)
	return k
}

// dirIndexPrefix returns the scan prefix for every quad id recorded in
// direction dir against valueID.
func dirIndexPrefix(dir quad.Direction, valueID uint64) []byte {
	k := make([]byte, 10)
	k[0] = familyDirIndex
	k[1] = dir.Byte()
	binary.BigEndian.PutUint64(k[2:10], valueID)
	return k
}

// dirIndexQuadID extracts the trailing quad id from a dirIndexKey.
func dirIndexQuadID(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[10:18])
}

// counterKey is the sole key in the counter family: a running tally of
// interned values and stored quads.
var counterKey = []byte{familyCounter}

// counters is the decoded body of the counter record.
type counters struct {
	Values uint64
	Quads  uint64
}

func (c counters) encode() []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], c.Values)
	binary.BigEndian.PutUint64(buf[8:16], c.Quads)
	return buf
}

func decodeCounters(b []byte) counters {
	if len(b) < 16 {
		return counters{}
	}
	return counters{
		Values: binary.BigEndian.Uint64(b[0:8]),
		Quads:  binary.BigEndian.Uint64(b[8:16]),
	}
}

func uint64key(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func decodeUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
