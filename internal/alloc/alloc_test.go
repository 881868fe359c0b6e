// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package alloc_test

import (
	"testing"

	"github.com/silkbench/silkbench/internal/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireThenReleaseIsReusedByNextAcquire(t *testing.T) {
	p := alloc.NewProfiler()
	a := p.Acquire()
	p.Release(a)
	b := p.Acquire()
	assert.Same(t, a, b)
}

func TestAcquireWithoutFreeAllocatesDistinctRecords(t *testing.T) {
	p := alloc.NewProfiler()
	a := p.Acquire()
	b := p.Acquire()
	assert.NotSame(t, a, b)
}

func TestAllVisitsEveryRecordAndFallback(t *testing.T) {
	p := alloc.NewProfiler()
	a := p.Acquire()
	b := p.Acquire()
	seen := map[*alloc.ThreadAllocInfo]bool{}
	p.All(func(info *alloc.ThreadAllocInfo) { seen[info] = true })
	assert.True(t, seen[a])
	assert.True(t, seen[b])
	assert.True(t, seen[p.Fallback()])
}

func TestResetZeroesTallies(t *testing.T) {
	p := alloc.NewProfiler()
	info := p.Acquire()
	info.Tallies().Tally(alloc.Alloc).Add(16)
	require.Equal(t, uint64(1), info.Tallies().Tally(alloc.Alloc).Count())
	p.Reset()
	assert.Equal(t, uint64(0), info.Tallies().Tally(alloc.Alloc).Count())
	assert.Equal(t, uint64(0), info.Tallies().Tally(alloc.Alloc).Size())
}

func TestTallyAccumulates(t *testing.T) {
	var tally alloc.Tally
	tally.Add(16)
	tally.Add(32)
	assert.Equal(t, uint64(2), tally.Count())
	assert.Equal(t, uint64(48), tally.Size())
}

func TestReallocMapsShrinkGrow(t *testing.T) {
	assert.Equal(t, alloc.Grow, alloc.Realloc(false))
	assert.Equal(t, alloc.Shrink, alloc.Realloc(true))
}

func TestSampleRecordsAllocs(t *testing.T) {
	p := alloc.NewProfiler()
	info := p.Acquire()

	s := alloc.Begin(info)
	junk := make([][]byte, 1000)
	for i := range junk {
		junk[i] = make([]byte, 64)
	}
	_ = junk
	s.End()

	assert.True(t, info.Tallies().Tally(alloc.Alloc).Count() > 0)
}
