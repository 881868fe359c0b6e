// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package stats implements the stats aggregator (C9): from a
// collection of recorded samples, it produces fastest/slowest/median/
// mean for time and for each counter/alloc-op, per spec.md §4.9.
package stats

import (
	"sort"

	"github.com/silkbench/silkbench/internal/alloc"
	"github.com/silkbench/silkbench/internal/fine"
)

// Sample is one recorded timed region: a fixed iteration count and
// the (overhead-subtracted) wall time it took, plus whatever optional
// per-sample counter and allocation totals accompanied it.
type Sample struct {
	TotalDuration fine.Duration
	Size          uint64

	HasCounter   bool
	CounterTotal uint64

	Alloc   alloc.Delta
	Dealloc alloc.Delta
}

// AvgPerIter returns the sample's per-iteration duration, the key
// samples are sorted and ranked by.
func (s Sample) AvgPerIter() fine.Duration {
	if s.Size == 0 {
		return fine.Duration{}
	}
	return s.TotalDuration.DivCount(s.Size)
}

// Collection accumulates samples for one benchmark entry: every thread
// count of its sweep and, for an argument sweep, every argument value.
type Collection struct {
	Samples []Sample
}

// Add appends s to the collection.
func (c *Collection) Add(s Sample) { c.Samples = append(c.Samples, s) }

// Len reports the number of recorded samples.
func (c *Collection) Len() int { return len(c.Samples) }

// TimeStats holds the four order statistics over per-iteration
// duration.
type TimeStats struct {
	Min, Max, Median, Mean fine.Duration
}

// ValueStats holds the four order statistics over a plain uint64
// series (counter totals, alloc counts, alloc sizes).
type ValueStats struct {
	Min, Max, Median uint64
	Mean             float64
}

// AllocOpStats pairs count and size statistics for one allocator
// operation (Alloc or Dealloc) across the sample set.
type AllocOpStats struct {
	Count ValueStats
	Size  ValueStats
}

// Stats is the fully aggregated result for one benchmark entry.
type Stats struct {
	SampleCount int
	IterCount   uint64
	Time        TimeStats
	Counter     *ValueStats
	Alloc       *AllocOpStats
	Dealloc     *AllocOpStats
}

// Compute aggregates c into a Stats value. An empty collection
// produces a zero-value Stats with SampleCount 0, matching spec.md's
// "no samples recorded: downstream stats empty" edge case.
func Compute(c *Collection) Stats {
	n := len(c.Samples)
	if n == 0 {
		return Stats{}
	}

	var iterCount uint64
	for _, s := range c.Samples {
		iterCount += s.Size
	}

	out := Stats{SampleCount: n, IterCount: iterCount}
	out.Time = computeTimeStats(c.Samples, iterCount)

	if c.Samples[0].HasCounter {
		totals := make([]uint64, n)
		for i, s := range c.Samples {
			totals[i] = s.CounterTotal
		}
		v := computeValueStats(totals)
		out.Counter = &v
	}

	out.Alloc = computeAllocOpStats(c.Samples, func(s Sample) alloc.Delta { return s.Alloc })
	out.Dealloc = computeAllocOpStats(c.Samples, func(s Sample) alloc.Delta { return s.Dealloc })

	return out
}

func computeTimeStats(samples []Sample, iterCount uint64) TimeStats {
	avgs := make([]fine.Duration, len(samples))
	for i, s := range samples {
		avgs[i] = s.AvgPerIter()
	}
	sort.Slice(avgs, func(i, j int) bool { return avgs[i].Less(avgs[j]) })

	var sum fine.Duration
	for _, s := range samples {
		sum = sum.Add(s.TotalDuration)
	}

	mean := fine.Duration{}
	if iterCount > 0 {
		mean = sum.DivCount(iterCount)
	}

	return TimeStats{
		Min:    avgs[0],
		Max:    avgs[len(avgs)-1],
		Median: median(avgs),
		Mean:   mean,
	}
}

func median(sorted []fine.Duration) fine.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	a, b := sorted[n/2-1], sorted[n/2]
	return a.Add(b).DivCount(2)
}

func computeValueStats(totals []uint64) ValueStats {
	sorted := append([]uint64(nil), totals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum uint64
	for _, v := range totals {
		sum += v
	}

	n := len(sorted)
	var med uint64
	if n%2 == 1 {
		med = sorted[n/2]
	} else {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return ValueStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: med,
		Mean:   float64(sum) / float64(n),
	}
}

func computeAllocOpStats(samples []Sample, pick func(Sample) alloc.Delta) *AllocOpStats {
	counts := make([]uint64, len(samples))
	sizes := make([]uint64, len(samples))
	var anyNonZero bool
	for i, s := range samples {
		d := pick(s)
		counts[i] = d.Count
		sizes[i] = d.Size
		if d.Count != 0 || d.Size != 0 {
			anyNonZero = true
		}
	}
	if !anyNonZero {
		return nil
	}
	countStats := computeValueStats(counts)
	sizeStats := computeValueStats(sizes)
	return &AllocOpStats{Count: countStats, Size: sizeStats}
}
