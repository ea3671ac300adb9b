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

// Package arena provides an append-only record arena. Producers store
// materialized records and pass opaque handles downstream instead of the
// records themselves; the arena owner resolves handles back to records and
// decides when to release them.
package arena

// Handle identifies a record stored in an Arena. Handles are only meaningful
// to the arena that issued them and become invalid after Reset.
type Handle int

// InvalidHandle is returned by operations that did not produce a record.
const InvalidHandle Handle = -1

// Arena stores records of type T and hands out handles to them.
// It is not safe for concurrent use.
type Arena[T any] struct {
	records []T
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Add stores a record and returns its handle.
func (a *Arena[T]) Add(rec T) Handle {
	a.records = append(a.records, rec)
	return Handle(len(a.records) - 1)
}

// Get returns the record behind a handle, or false if the handle was not
// issued by this arena (or the arena has been reset since).
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if h < 0 || int(h) >= len(a.records) {
		var zero T
		return zero, false
	}
	return a.records[h], true
}

// Len returns the number of records currently stored.
func (a *Arena[T]) Len() int {
	return len(a.records)
}

// Reset discards all records. Previously issued handles become invalid.
func (a *Arena[T]) Reset() {
	a.records = a.records[:0]
}
