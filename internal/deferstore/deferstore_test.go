// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package deferstore_test

import (
	"testing"

	"github.com/silkbench/silkbench/internal/deferstore"
	"github.com/stretchr/testify/assert"
)

func TestPrepareAndRoundTrip(t *testing.T) {
	var s deferstore.Store[int, string]
	s.Prepare(3)
	assert.Equal(t, 3, s.Len())
	for i := 0; i < 3; i++ {
		s.SetInput(i, i*10)
	}
	for i := 0; i < 3; i++ {
		s.SetOutput(i, "x")
	}
	assert.Equal(t, 20, s.Input(2))
}

func TestPrepareReusesBackingArray(t *testing.T) {
	var s deferstore.Store[int, int]
	s.Prepare(100)
	s.SetInput(50, 7)
	s.Prepare(10)
	assert.Equal(t, 10, s.Len())
	s.Prepare(100)
	assert.Equal(t, 100, s.Len())
	assert.Equal(t, 7, s.Input(50))
}

func TestDropOutputsZeroesValues(t *testing.T) {
	var s deferstore.Store[int, []byte]
	s.Prepare(2)
	s.SetOutput(0, []byte("hello"))
	s.DropOutputs()
	assert.Nil(t, s.Output(0))
}

func TestNeedsStore(t *testing.T) {
	assert.False(t, deferstore.NeedsStore[struct{}](true, true))
	assert.True(t, deferstore.NeedsStore[struct{}](false, true))
	assert.True(t, deferstore.NeedsStore[struct{}](true, false))
}
