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

// Package bucket models storage buckets: variable-occupancy, fixed-capacity
// containers of records, stored as compressed columnar blocks. It defines the
// narrow capability contracts a consumer needs (Handle identity, Unpacker
// record access) and an in-memory Store implementing them for time-series
// measurements.
package bucket

import "errors"

var (
	// ErrForeignHandle is returned when a handle was not issued by the
	// store being asked about it.
	ErrForeignHandle = errors.New("bucket: handle does not belong to this store")

	// ErrIndexOutOfBounds is returned by Materialize for an index at or
	// past the bucket's record count.
	ErrIndexOutOfBounds = errors.New("bucket: measurement index out of bounds")

	// ErrCorruptBlock is returned when a bucket's encoded block cannot be
	// decoded.
	ErrCorruptBlock = errors.New("bucket: corrupt block")
)

// Handle is an opaque reference to a stored bucket. Implementations expose
// identity only; record access goes through an Unpacker.
type Handle interface {
	ID() ID
}

// Unpacker extracts records from buckets. Materialize is valid only for
// index < RecordCount(h); callers must establish that precondition first.
type Unpacker[T any] interface {
	// RecordCount reports the number of records actually stored in the
	// bucket, which may be less than the store's per-bucket capacity.
	RecordCount(h Handle) int

	// Materialize decodes the record at the given in-bucket index.
	Materialize(h Handle, index int) (T, error)
}

// Measurement is one time-series record: a timestamp plus named float64
// fields. The field set is fixed per store (its schema).
type Measurement struct {
	Timestamp int64
	Fields    map[string]float64
}
