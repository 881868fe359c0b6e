// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package bench implements the Bencher / sample loop subsystem: the
// hot measurement loop itself, per-sample timing, input/output
// deferral, overhead subtraction, and the min/max-time budget, per
// spec.md §4.8. BenchOptions lives here rather than in internal/entry
// so that both internal/entry (which only needs the inheritance
// algebra) and the root package (which needs the Bencher type) can
// import it without a cycle.
package bench

import (
	"time"

	"github.com/silkbench/silkbench/counter"
	"github.com/silkbench/silkbench/internal/fine"
)

// Options is a configuration value-object. All fields are optional;
// a nil/zero field means "inherit from the enclosing layer". See
// Overwrite for the composition rule.
type Options struct {
	SampleCount *uint32
	SampleSize  *uint32
	MinTime     *time.Duration
	MaxTime     *time.Duration
	SkipExtTime *bool
	Counter     *counter.Counter
	Threads     []int
	Ignore      *bool
}

// Overwrite composes child over parent: every field set (non-nil) in
// child replaces the corresponding field in parent; unset fields fall
// through to parent. Matches spec.md invariant #6.
func (child Options) Overwrite(parent Options) Options {
	out := parent
	if child.SampleCount != nil {
		out.SampleCount = child.SampleCount
	}
	if child.SampleSize != nil {
		out.SampleSize = child.SampleSize
	}
	if child.MinTime != nil {
		out.MinTime = child.MinTime
	}
	if child.MaxTime != nil {
		out.MaxTime = child.MaxTime
	}
	if child.SkipExtTime != nil {
		out.SkipExtTime = child.SkipExtTime
	}
	if child.Counter != nil {
		out.Counter = child.Counter
	}
	if child.Threads != nil {
		out.Threads = child.Threads
	}
	if child.Ignore != nil {
		out.Ignore = child.Ignore
	}
	return out
}

// HasSamples reports whether the effective option set permits any
// samples at all.
func (o Options) HasSamples() bool {
	if o.SampleCount != nil && *o.SampleCount == 0 {
		return false
	}
	if o.SampleSize != nil && *o.SampleSize == 0 {
		return false
	}
	return true
}

// MinTimeDuration returns the configured floor, or zero.
func (o Options) MinTimeDuration() fine.Duration {
	if o.MinTime == nil {
		return fine.Duration{}
	}
	return fine.FromCoarse(*o.MinTime)
}

// MaxTimeDuration returns the configured ceiling, or fine.Max if
// unset.
func (o Options) MaxTimeDuration() fine.Duration {
	if o.MaxTime == nil {
		return fine.Max
	}
	return fine.FromCoarse(*o.MaxTime)
}

// EffectiveSkipExtTime returns the configured skip_ext_time, default
// false.
func (o Options) EffectiveSkipExtTime() bool {
	return o.SkipExtTime != nil && *o.SkipExtTime
}

// EffectiveIgnore returns the configured ignore, default false.
func (o Options) EffectiveIgnore() bool {
	return o.Ignore != nil && *o.Ignore
}

// EffectiveThreads returns the configured thread-count sweep, or
// [1] if unset. A 0 entry means "available parallelism" and is
// resolved by the caller.
func (o Options) EffectiveThreads() []int {
	if len(o.Threads) == 0 {
		return []int{1}
	}
	return o.Threads
}
