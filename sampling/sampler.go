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
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/apache/bucketsample-go/arena"
	"github.com/apache/bucketsample-go/bucket"
)

// Config carries the construction parameters of a Sampler.
type Config[T any] struct {
	// SampleSize is the number of records to emit before exhaustion.
	SampleSize int64

	// BucketCapacity is the exclusive upper bound for random slot draws.
	// It must be at least the record count of every bucket the supplier
	// can produce; a bucket exceeding it would let slots past the
	// capacity go unsampled.
	BucketCapacity int

	// RejectionSeed is the starting value of the combined rejection
	// counter, carried over from a preceding sampling phase of the same
	// logical operation. It only affects diagnostics.
	RejectionSeed int64

	// Supplier produces candidate buckets.
	Supplier Supplier

	// Unpacker reads record counts and materializes records from the
	// supplier's buckets.
	Unpacker bucket.Unpacker[T]

	// Sink stores accepted records; Next returns its handles.
	Sink *arena.Arena[T]

	// Rand drives the slot draws. Defaults to a time-seeded source.
	Rand *rand.Rand

	// DrawIndex overrides the slot draw; it must return values in
	// [0, capacity). Intended for deterministic tests.
	DrawIndex func(capacity int) int
}

// Sampler draws a uniform random sample of SampleSize records, without
// replacement, one trial per Next call. It is not safe for concurrent use.
type Sampler[T any] struct {
	supplier  Supplier
	unpacker  bucket.Unpacker[T]
	sink      *arena.Arena[T]
	capacity  int
	target    int64
	drawIndex func(capacity int) int

	sampled    int64
	rejected   int64
	emptySlots int64
	duplicates int64
	seen       seenSet
}

// NewSampler creates a sampler from the given configuration.
func NewSampler[T any](cfg Config[T]) (*Sampler[T], error) {
	if cfg.SampleSize < 0 {
		return nil, errors.New("sample size must be non-negative")
	}
	if cfg.BucketCapacity < 1 {
		return nil, errors.New("bucket capacity must be at least 1")
	}
	if cfg.RejectionSeed < 0 {
		return nil, errors.New("rejection seed must be non-negative")
	}
	if cfg.Supplier == nil {
		return nil, errors.New("supplier must not be nil")
	}
	if cfg.Unpacker == nil {
		return nil, errors.New("unpacker must not be nil")
	}
	if cfg.Sink == nil {
		return nil, errors.New("sink must not be nil")
	}

	drawIndex := cfg.DrawIndex
	if drawIndex == nil {
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		drawIndex = rng.Intn
	}

	return &Sampler[T]{
		supplier:  cfg.Supplier,
		unpacker:  cfg.Unpacker,
		sink:      cfg.Sink,
		capacity:  cfg.BucketCapacity,
		target:    cfg.SampleSize,
		drawIndex: drawIndex,
		rejected:  cfg.RejectionSeed,
		seen:      make(seenSet),
	}, nil
}

// Next performs at most one trial and reports the outcome:
//
//   - StepProduced with a handle to the record stored in the sink;
//   - StepAgain when the trial was rejected, or the supplier had no bucket
//     ready (the latter consumes no trial);
//   - StepYield, propagated verbatim from the supplier, consuming no trial;
//   - StepDone once SampleSize records have been produced.
//
// A non-nil error is fatal and the sampler must not be pulled again.
func (s *Sampler[T]) Next() (Step, arena.Handle, error) {
	if s.Done() {
		return StepDone, arena.InvalidHandle, nil
	}

	h, step, err := s.supplier.Next()
	if err != nil {
		return StepAgain, arena.InvalidHandle, fmt.Errorf("pulling bucket: %w", err)
	}
	switch step {
	case StepProduced:
	case StepAgain, StepYield:
		return step, arena.InvalidHandle, nil
	case StepDone:
		return StepAgain, arena.InvalidHandle, ErrUpstreamExhausted
	default:
		return StepAgain, arena.InvalidHandle, fmt.Errorf("unexpected supplier state %v", step)
	}

	index := s.drawIndex(s.capacity)
	if index >= s.unpacker.RecordCount(h) {
		// The slot is unpopulated: this bucket holds fewer records
		// than the capacity. Rejecting here keeps every real record's
		// selection probability at 1/capacity per trial, independent
		// of how full its bucket is.
		s.rejected++
		s.emptySlots++
		return StepAgain, arena.InvalidHandle, nil
	}

	key := SampledKey{BucketID: h.ID(), Index: int32(index)}
	if s.seen.contains(key) {
		s.rejected++
		s.duplicates++
		return StepAgain, arena.InvalidHandle, nil
	}

	rec, err := s.unpacker.Materialize(h, index)
	if err != nil {
		// The index was validated against the record count above, so
		// this can only be a broken unpacker contract.
		return StepAgain, arena.InvalidHandle, fmt.Errorf("materializing measurement %d of bucket %s: %w", index, h.ID(), err)
	}

	s.seen.add(key)
	s.sampled++
	return StepProduced, s.sink.Add(rec), nil
}

// Done reports whether the sampler has produced its full sample. It is pure:
// querying it never performs a trial, and once true it stays true.
func (s *Sampler[T]) Done() bool {
	return s.sampled >= s.target
}

// Stats returns the sampler's counters.
func (s *Sampler[T]) Stats() Stats {
	return Stats{
		Sampled:    s.sampled,
		SampleSize: s.target,
		Rejected:   s.rejected,
		EmptySlots: s.emptySlots,
		Duplicates: s.duplicates,
	}
}

// Stats describes a sampler's progress.
type Stats struct {
	// Sampled is the number of records produced so far.
	Sampled int64

	// SampleSize is the configured target.
	SampleSize int64

	// Rejected counts all rejected trials, on top of the seed the
	// sampler was constructed with.
	Rejected int64

	// EmptySlots counts trials rejected because the drawn slot was not
	// populated.
	EmptySlots int64

	// Duplicates counts trials rejected because the record had already
	// been sampled.
	Duplicates int64
}
