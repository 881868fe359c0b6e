// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package clock implements the timer subsystem: picking between the
// OS monotonic clock and the CPU timestamp counter, reading
// timestamps with the fence discipline a sample loop needs, and
// calibrating the timer's own precision floor and per-iteration
// overhead so callers can subtract it from measurements.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/silkbench/silkbench/internal/fine"
)

// Kind names which clock backs a Timer.
type Kind int

const (
	// OS reads time.Now()'s monotonic reading.
	OS Kind = iota
	// TSC reads the CPU timestamp counter directly, converting ticks
	// to picoseconds using a calibrated frequency.
	TSC
)

func (k Kind) String() string {
	if k == TSC {
		return "tsc"
	}
	return "os"
}

// Timestamp is an untagged point in time: either a tick count (TSC)
// or a nanosecond count (OS), depending on which Timer produced it.
// Keeping it untagged avoids a branch inside the timed region; the
// owning Timer resolves the variant when differencing two
// Timestamps.
type Timestamp uint64

// Fence issues a full memory barrier. The sample loop calls this
// immediately before reading the start timestamp and immediately
// after reading the end timestamp, so neither the compiler nor the
// CPU can reorder the measured code out of the timed window. Go
// exposes no portable fence intrinsic, so this is built from a
// sequentially-consistent atomic operation, which the runtime and
// hardware must not reorder around.
func Fence() {
	var b atomic.Uint32
	b.Add(1)
}

// CompilerFence is the compiler-only half of the fence discipline:
// it prevents instruction reordering across this point without
// forcing the CPU-level barrier that Fence does. It performs an
// atomic load so the surrounding code (in particular, the timestamp
// read) is not hoisted or sunk across it.
func CompilerFence() {
	var b atomic.Uint32
	_ = b.Load()
}

// Now returns the current instant as an OS-kind Timestamp: the
// number of nanoseconds since an arbitrary fixed point, suitable only
// for differencing against another OS Timestamp from the same
// process.
func Now() Timestamp {
	return Timestamp(monotonicNow())
}

var processStart = time.Now()

func monotonicNow() uint64 {
	return uint64(time.Since(processStart))
}

// DiffOS returns the non-negative picosecond duration between two
// OS-kind Timestamps, clamping to zero if end is not after start
// (the clock non-monotonicity guard).
func DiffOS(start, end Timestamp) fine.Duration {
	if end <= start {
		return fine.Duration{}
	}
	return fine.FromCoarse(time.Duration(uint64(end) - uint64(start)))
}
