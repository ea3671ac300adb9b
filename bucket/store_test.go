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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeasurement(ts int64, v float64) Measurement {
	return Measurement{
		Timestamp: ts,
		Fields:    map[string]float64{"temp": v, "pressure": v * 2},
	}
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(0, []string{"temp"})
	assert.ErrorContains(t, err, "capacity must be at least 1")

	_, err = NewStore(4, nil)
	assert.ErrorContains(t, err, "at least one field")

	_, err = NewStore(4, []string{"temp", ""})
	assert.ErrorContains(t, err, "non-empty")

	_, err = NewStore(4, []string{"temp", "temp"})
	assert.ErrorContains(t, err, "duplicate schema field")
}

func TestStoreSealsAtCapacity(t *testing.T) {
	store, err := NewStore(3, []string{"temp", "pressure"})
	require.NoError(t, err)

	for i := int64(0); i < 7; i++ {
		require.NoError(t, store.Append(testMeasurement(i, float64(i))))
	}

	// Two full buckets sealed, one measurement still open.
	assert.Equal(t, 2, store.NumBuckets())

	require.NoError(t, store.Seal())
	assert.Equal(t, 3, store.NumBuckets())
	assert.Equal(t, 3, store.RecordCount(store.Bucket(0)))
	assert.Equal(t, 3, store.RecordCount(store.Bucket(1)))
	assert.Equal(t, 1, store.RecordCount(store.Bucket(2)))
}

func TestStoreMaterializeRoundTrip(t *testing.T) {
	store, err := NewStore(4, []string{"temp", "pressure"})
	require.NoError(t, err)

	want := []Measurement{
		testMeasurement(1000, 21.5),
		testMeasurement(1010, 21.6),
		testMeasurement(1025, -3.25),
	}
	for _, m := range want {
		require.NoError(t, store.Append(m))
	}
	require.NoError(t, store.Seal())

	h := store.Bucket(0)
	require.Equal(t, 3, store.RecordCount(h))
	for i, w := range want {
		got, err := store.Materialize(h, i)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestStoreMaterializeOutOfBounds(t *testing.T) {
	store, err := NewStore(4, []string{"temp", "pressure"})
	require.NoError(t, err)
	require.NoError(t, store.Append(testMeasurement(1, 1)))
	require.NoError(t, store.Seal())

	h := store.Bucket(0)
	_, err = store.Materialize(h, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = store.Materialize(h, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestStoreForeignHandle(t *testing.T) {
	a, err := NewStore(4, []string{"temp", "pressure"})
	require.NoError(t, err)
	b, err := NewStore(4, []string{"temp", "pressure"})
	require.NoError(t, err)

	require.NoError(t, a.Append(testMeasurement(1, 1)))
	require.NoError(t, a.Seal())

	h := a.Bucket(0)
	assert.Equal(t, 0, b.RecordCount(h))
	_, err = b.Materialize(h, 0)
	assert.ErrorIs(t, err, ErrForeignHandle)
}

func TestStoreAppendSchemaMismatch(t *testing.T) {
	store, err := NewStore(4, []string{"temp"})
	require.NoError(t, err)

	err = store.Append(Measurement{Timestamp: 1, Fields: map[string]float64{"humidity": 1}})
	assert.ErrorContains(t, err, `missing field "temp"`)

	err = store.Append(Measurement{Timestamp: 1, Fields: map[string]float64{"temp": 1, "humidity": 2}})
	assert.ErrorContains(t, err, "schema has 1")
}

func TestStoreDistinctIDsForIdenticalContent(t *testing.T) {
	store, err := NewStore(2, []string{"temp", "pressure"})
	require.NoError(t, err)

	// Two buckets holding byte-identical payloads.
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(testMeasurement(int64(i%2), 5)))
	}

	require.Equal(t, 2, store.NumBuckets())
	assert.NotEqual(t, store.Bucket(0).ID(), store.Bucket(1).ID())
}

func TestStoreMaterializeReturnsFreshRecord(t *testing.T) {
	store, err := NewStore(4, []string{"temp", "pressure"})
	require.NoError(t, err)
	require.NoError(t, store.Append(testMeasurement(1, 10)))
	require.NoError(t, store.Seal())

	h := store.Bucket(0)
	first, err := store.Materialize(h, 0)
	require.NoError(t, err)
	first.Fields["temp"] = -999

	second, err := store.Materialize(h, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, second.Fields["temp"])
}
