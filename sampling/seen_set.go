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

package sampling

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"

	"github.com/apache/bucketsample-go/bucket"
)

// Salts keeping the key's two hash components independent, so an index whose
// bits coincide with part of the identifier cannot cancel under XOR.
const (
	keyIDHashSeed    = uint64(0x8f1c_37d2_5a09_4be6)
	keyIndexHashSeed = uint64(0x1bd6_8f04_c993_27a1)
)

// SampledKey addresses one record across all buckets: the bucket's identifier
// plus the record's in-bucket index. It is the unit of de-duplication; two
// keys are equal iff both components match.
type SampledKey struct {
	BucketID bucket.ID
	Index    int32
}

// Hash64 mixes independent hashes of the two components: the murmur3-128
// halves of the identifier XORed with a salted xxhash of the index.
func (k SampledKey) Hash64() uint64 {
	h1, h2 := murmur3.SeedSum128(keyIDHashSeed, keyIDHashSeed, k.BucketID[:])

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], uint32(k.Index))
	d := xxhash.NewWithSeed(keyIndexHashSeed)
	_, _ = d.Write(idx[:])

	return h1 ^ h2 ^ d.Sum64()
}

// seenSet tracks the keys accepted so far. Membership is exact (the map is
// keyed by the struct), so hash quality affects distribution only, never
// correctness. Entries are never removed: sampling is without replacement
// for the lifetime of the sampler.
type seenSet map[SampledKey]struct{}

func (s seenSet) contains(k SampledKey) bool {
	_, ok := s[k]
	return ok
}

func (s seenSet) add(k SampledKey) {
	s[k] = struct{}{}
}
