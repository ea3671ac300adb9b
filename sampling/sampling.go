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

// Package sampling draws uniform random samples, without replacement, from
// collections whose records are grouped into variable-occupancy buckets.
//
// The Sampler implements a variation on the ARHASH algorithm (see
// https://dl.acm.org/doi/10.1145/93605.98746): each trial pulls one bucket
// from a random supplier, draws a slot uniformly in [0, capacity), and
// rejects the trial if the slot is unpopulated (the acceptance/rejection
// correction that undoes the bias toward under-full buckets) or if the same
// (bucket, slot) pair was already accepted (hash-based de-duplication, which
// makes the sample without replacement). Trials are exposed one at a time
// through a pull protocol so the caller can interleave other work and honor
// yield requests between trials.
package sampling

import (
	"errors"

	"github.com/apache/bucketsample-go/bucket"
)

// ErrUpstreamExhausted reports that the bucket supplier ran dry while
// sampling was still incomplete. Suppliers are expected to be inexhaustible
// for the lifetime of a sampler (for example by cycling over the store), so
// this is a contract violation, not a normal end of stream.
var ErrUpstreamExhausted = errors.New("sampling: bucket supplier exhausted before sampling completed")

// Step is the result state of one pull. The same states describe both a
// Sampler pull and a Supplier pull.
type Step int

const (
	// StepAgain means no output was produced this call; pull again.
	StepAgain Step = iota

	// StepYield asks the caller to release any resources it holds on
	// behalf of the producer (storage snapshots and the like) before
	// pulling again.
	StepYield

	// StepProduced means a value was produced.
	StepProduced

	// StepDone means the producer is permanently exhausted.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAgain:
		return "AGAIN"
	case StepYield:
		return "YIELD"
	case StepProduced:
		return "PRODUCED"
	case StepDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Supplier hands out buckets approximately uniformly at random, with
// replacement. StepProduced carries a handle; StepAgain and StepYield carry
// none and mean "pull again" (after releasing resources, for StepYield).
// A Supplier must not report StepDone while a sampler still needs buckets.
type Supplier interface {
	Next() (bucket.Handle, Step, error)
}
