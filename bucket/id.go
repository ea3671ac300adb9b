/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bucket

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// IDLen is the size of a bucket identifier in bytes.
const IDLen = 12

// ID is a fixed-size, globally unique bucket identifier. IDs are
// content-addressed: they are derived from the bucket's encoded payload, so
// equal IDs imply equal content. Beyond equality and hashing the value is
// opaque.
type ID [IDLen]byte

// NewID derives an identifier from a bucket's encoded payload. The sequence
// number is folded into the hash seed so that two buckets holding identical
// payloads still get distinct identities.
func NewID(seq uint64, payload []byte) ID {
	h1, h2 := murmur3.SeedSum128(seq, seq, payload)

	var id ID
	binary.LittleEndian.PutUint64(id[:8], h1)
	binary.LittleEndian.PutUint32(id[8:], uint32(h2))
	return id
}

// IDFromBytes builds an ID from a raw 12-byte value.
func IDFromBytes(b []byte) (ID, error) {
	if len(b) != IDLen {
		return ID{}, fmt.Errorf("bucket id must be %d bytes, got %d", IDLen, len(b))
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Hash64 returns a well-distributed 64-bit hash of the identifier.
func (id ID) Hash64() uint64 {
	return xxhash.Sum64(id[:])
}

// String returns the identifier as lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}
