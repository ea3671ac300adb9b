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

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaAddGet(t *testing.T) {
	a := New[string]()
	assert.Equal(t, 0, a.Len())

	h1 := a.Add("first")
	h2 := a.Add("second")
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, a.Len())

	got, ok := a.Get(h1)
	assert.True(t, ok)
	assert.Equal(t, "first", got)

	got, ok = a.Get(h2)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestArenaInvalidHandle(t *testing.T) {
	a := New[int]()
	a.Add(42)

	_, ok := a.Get(InvalidHandle)
	assert.False(t, ok)

	_, ok = a.Get(Handle(7))
	assert.False(t, ok)
}

func TestArenaReset(t *testing.T) {
	a := New[int]()
	h := a.Add(1)
	a.Add(2)

	a.Reset()
	assert.Equal(t, 0, a.Len())

	_, ok := a.Get(h)
	assert.False(t, ok)

	// Handles restart from zero after a reset.
	assert.Equal(t, Handle(0), a.Add(3))
}

func TestArenaWithStruct(t *testing.T) {
	type point struct{ X, Y float64 }

	a := New[point]()
	h := a.Add(point{X: 1.5, Y: -2})

	got, ok := a.Get(h)
	assert.True(t, ok)
	assert.Equal(t, point{X: 1.5, Y: -2}, got)
}
