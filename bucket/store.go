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
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Store is an in-memory bucket store for time-series measurements. Appended
// measurements accumulate in an open bucket that is sealed into a compressed
// columnar block once it reaches the store's capacity; Seal flushes a partial
// bucket early, which is how under-full buckets come to exist.
//
// Store implements Unpacker[Measurement] over the handles it issues.
// It is not safe for concurrent use.
type Store struct {
	capacity int
	schema   []string

	sealed []*sealedBucket
	byID   map[ID]*sealedBucket
	open   []Measurement

	// Unpacking is bucket-at-a-time, so keep the last decoded bucket
	// around: consumers typically probe the same bucket several times.
	lastID      ID
	lastRecords []Measurement
}

type sealedBucket struct {
	id    ID
	count int
	block []byte
}

// ID returns the bucket's identifier. sealedBucket is the Handle
// implementation issued by Store.
func (b *sealedBucket) ID() ID {
	return b.id
}

// NewStore creates a store with the given per-bucket capacity and field
// schema. Field names must be non-empty and unique.
func NewStore(capacity int, fields []string) (*Store, error) {
	if capacity < 1 {
		return nil, errors.New("capacity must be at least 1")
	}
	if len(fields) == 0 {
		return nil, errors.New("schema must name at least one field")
	}
	schema := slices.Clone(fields)
	for i, f := range schema {
		if f == "" {
			return nil, errors.New("schema field names must be non-empty")
		}
		if slices.Contains(schema[:i], f) {
			return nil, fmt.Errorf("duplicate schema field %q", f)
		}
	}

	return &Store{
		capacity: capacity,
		schema:   schema,
		byID:     make(map[ID]*sealedBucket),
	}, nil
}

// Capacity returns the maximum number of measurements per bucket.
func (s *Store) Capacity() int {
	return s.capacity
}

// Schema returns the store's field names.
func (s *Store) Schema() []string {
	return slices.Clone(s.schema)
}

// Append adds a measurement to the open bucket, sealing it when it reaches
// capacity. The measurement must carry exactly the schema's fields.
func (s *Store) Append(m Measurement) error {
	if len(m.Fields) != len(s.schema) {
		return fmt.Errorf("measurement has %d fields, schema has %d", len(m.Fields), len(s.schema))
	}
	for _, f := range s.schema {
		if _, ok := m.Fields[f]; !ok {
			return fmt.Errorf("measurement missing field %q", f)
		}
	}

	s.open = append(s.open, m)
	if len(s.open) == s.capacity {
		return s.Seal()
	}
	return nil
}

// Seal flushes the open bucket, if any, into a sealed block. Sealing early
// produces a bucket holding fewer measurements than the capacity.
func (s *Store) Seal() error {
	if len(s.open) == 0 {
		return nil
	}

	block, err := encodeBlock(s.schema, s.open)
	if err != nil {
		return err
	}

	b := &sealedBucket{
		id:    NewID(uint64(len(s.sealed)), block),
		count: len(s.open),
		block: block,
	}
	s.sealed = append(s.sealed, b)
	s.byID[b.id] = b
	s.open = nil
	return nil
}

// NumBuckets returns the number of sealed buckets.
func (s *Store) NumBuckets() int {
	return len(s.sealed)
}

// Bucket returns a handle to the i-th sealed bucket.
func (s *Store) Bucket(i int) Handle {
	return s.sealed[i]
}

// RecordCount reports the number of measurements in the bucket, or 0 for a
// handle this store did not issue.
func (s *Store) RecordCount(h Handle) int {
	b, ok := h.(*sealedBucket)
	if !ok || s.byID[b.id] != b {
		return 0
	}
	return b.count
}

// Materialize decodes the measurement at the given index of the bucket.
// The index must be below the bucket's record count.
func (s *Store) Materialize(h Handle, index int) (Measurement, error) {
	b, ok := h.(*sealedBucket)
	if !ok || s.byID[b.id] != b {
		return Measurement{}, ErrForeignHandle
	}
	if index < 0 || index >= b.count {
		return Measurement{}, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfBounds, index, b.count)
	}

	if s.lastID != b.id || s.lastRecords == nil {
		records, err := decodeBlock(s.schema, b.block)
		if err != nil {
			return Measurement{}, err
		}
		if len(records) != b.count {
			return Measurement{}, fmt.Errorf("%w: decoded %d records, expected %d", ErrCorruptBlock, len(records), b.count)
		}
		s.lastID = b.id
		s.lastRecords = records
	}
	// Hand out a fresh record so callers cannot mutate the decode cache.
	rec := s.lastRecords[index]
	return Measurement{Timestamp: rec.Timestamp, Fields: maps.Clone(rec.Fields)}, nil
}
