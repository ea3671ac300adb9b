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
	"math/rand"
	"time"

	"github.com/apache/bucketsample-go/bucket"
)

// RandomCursor is a Supplier over a bucket store: each pull returns one of
// the store's sealed buckets uniformly at random, with replacement. It never
// exhausts; while the store has no sealed bucket yet it reports StepAgain.
// An optional yield interval makes it report StepYield every n produced
// buckets, giving the caller periodic points to release resources.
type RandomCursor struct {
	store      *bucket.Store
	rng        *rand.Rand
	yieldEvery int

	sinceYield int
}

// NewRandomCursor creates a cursor over the store. rng may be nil, in which
// case a time-seeded source is used. yieldEvery <= 0 disables yielding.
func NewRandomCursor(store *bucket.Store, rng *rand.Rand, yieldEvery int) (*RandomCursor, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomCursor{
		store:      store,
		rng:        rng,
		yieldEvery: yieldEvery,
	}, nil
}

// Next returns a uniformly random sealed bucket.
func (c *RandomCursor) Next() (bucket.Handle, Step, error) {
	if c.yieldEvery > 0 && c.sinceYield >= c.yieldEvery {
		c.sinceYield = 0
		return nil, StepYield, nil
	}

	n := c.store.NumBuckets()
	if n == 0 {
		return nil, StepAgain, nil
	}

	c.sinceYield++
	return c.store.Bucket(c.rng.Intn(n)), StepProduced, nil
}
