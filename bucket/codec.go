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
	"fmt"
	"math"

	"github.com/dennwc/varint"
	"github.com/golang/snappy"

	"github.com/apache/bucketsample-go/internal"
)

// Block layout (before snappy compression), all integers varint encoded:
//
//	uvarint   record count
//	column    timestamps: zigzag varint, delta against the previous value
//	column*   one per schema field: float64 bits XORed against the previous
//	          record's bits, as uvarint
//
// The schema itself is not stored; the store that sealed the block knows it.

// encodeBlock encodes measurements into a snappy-compressed columnar block.
// All measurements must carry exactly the schema's fields.
func encodeBlock(schema []string, ms []Measurement) ([]byte, error) {
	buf := binary.AppendUvarint(nil, uint64(len(ms)))

	prevTS := int64(0)
	for _, m := range ms {
		buf = binary.AppendUvarint(buf, internal.ZigZagEncode(m.Timestamp-prevTS))
		prevTS = m.Timestamp
	}

	for _, field := range schema {
		prevBits := uint64(0)
		for _, m := range ms {
			v, ok := m.Fields[field]
			if !ok {
				return nil, fmt.Errorf("measurement at %d missing field %q", m.Timestamp, field)
			}
			bits := math.Float64bits(v)
			buf = binary.AppendUvarint(buf, bits^prevBits)
			prevBits = bits
		}
	}

	return snappy.Encode(nil, buf), nil
}

// decodeBlock decodes a block sealed by encodeBlock with the same schema.
func decodeBlock(schema []string, block []byte) ([]Measurement, error) {
	buf, err := snappy.Decode(nil, block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
	}

	count, n := varint.Uvarint(buf)
	if n <= 0 || count > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: bad record count", ErrCorruptBlock)
	}
	buf = buf[n:]

	ms := make([]Measurement, count)
	prevTS := int64(0)
	for i := range ms {
		u, n := varint.Uvarint(buf)
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated timestamp column", ErrCorruptBlock)
		}
		buf = buf[n:]
		prevTS += internal.ZigZagDecode(u)
		ms[i].Timestamp = prevTS
		ms[i].Fields = make(map[string]float64, len(schema))
	}

	for _, field := range schema {
		prevBits := uint64(0)
		for i := range ms {
			u, n := varint.Uvarint(buf)
			if n <= 0 {
				return nil, fmt.Errorf("%w: truncated column %q", ErrCorruptBlock, field)
			}
			buf = buf[n:]
			prevBits ^= u
			ms[i].Fields[field] = math.Float64frombits(prevBits)
		}
	}

	return ms, nil
}
