// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package stats_test

import (
	"testing"
	"time"

	"github.com/silkbench/silkbench/internal/alloc"
	"github.com/silkbench/silkbench/internal/fine"
	"github.com/silkbench/silkbench/stats"
	"github.com/stretchr/testify/assert"
)

func dur(d time.Duration) fine.Duration { return fine.FromCoarse(d) }

func TestComputeEmptyIsZeroValue(t *testing.T) {
	got := stats.Compute(&stats.Collection{})
	assert.Equal(t, stats.Stats{}, got)
}

func TestComputeOrdersMinMedianMax(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{TotalDuration: dur(30 * time.Nanosecond), Size: 1})
	c.Add(stats.Sample{TotalDuration: dur(10 * time.Nanosecond), Size: 1})
	c.Add(stats.Sample{TotalDuration: dur(20 * time.Nanosecond), Size: 1})

	got := stats.Compute(c)
	assert.Equal(t, 3, got.SampleCount)
	assert.Equal(t, uint64(3), got.IterCount)
	assert.True(t, got.Time.Min.Cmp(got.Time.Median) <= 0)
	assert.True(t, got.Time.Median.Cmp(got.Time.Max) <= 0)
	assert.Equal(t, dur(10*time.Nanosecond), got.Time.Min)
	assert.Equal(t, dur(30*time.Nanosecond), got.Time.Max)
	assert.Equal(t, dur(20*time.Nanosecond), got.Time.Median)
}

func TestComputeMeanDividesByIterCount(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{TotalDuration: dur(100 * time.Nanosecond), Size: 10})
	c.Add(stats.Sample{TotalDuration: dur(200 * time.Nanosecond), Size: 10})

	got := stats.Compute(c)
	assert.Equal(t, uint64(20), got.IterCount)
	assert.Equal(t, dur(15*time.Nanosecond), got.Time.Mean)
}

func TestComputeCounterStatsOmittedWhenUnset(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{TotalDuration: dur(time.Nanosecond), Size: 1})
	got := stats.Compute(c)
	assert.Nil(t, got.Counter)
}

func TestComputeCounterStatsPresentWhenSet(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{TotalDuration: dur(time.Nanosecond), Size: 1, HasCounter: true, CounterTotal: 1024})
	c.Add(stats.Sample{TotalDuration: dur(time.Nanosecond), Size: 1, HasCounter: true, CounterTotal: 2048})
	got := stats.Compute(c)
	if assert.NotNil(t, got.Counter) {
		assert.Equal(t, uint64(1024), got.Counter.Min)
		assert.Equal(t, uint64(2048), got.Counter.Max)
	}
}

func TestComputeAllocStatsOmittedWhenZero(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{TotalDuration: dur(time.Nanosecond), Size: 1})
	got := stats.Compute(c)
	assert.Nil(t, got.Alloc)
	assert.Nil(t, got.Dealloc)
}

func TestComputeAllocStatsPresentWhenNonZero(t *testing.T) {
	c := &stats.Collection{}
	c.Add(stats.Sample{
		TotalDuration: dur(time.Nanosecond), Size: 1,
		Alloc: alloc.Delta{Count: 3, Size: 48},
	})
	got := stats.Compute(c)
	if assert.NotNil(t, got.Alloc) {
		assert.Equal(t, uint64(3), got.Alloc.Count.Min)
		assert.Equal(t, uint64(48), got.Alloc.Size.Max)
	}
}
