// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package clock

import (
	"time"

	"github.com/silkbench/silkbench/internal/errs"
	"github.com/silkbench/silkbench/internal/fine"
	"github.com/silkbench/silkbench/internal/once"
)

// Timer reads timestamps for the sample loop, choosing between the
// OS monotonic clock and the CPU timestamp counter, and caches its
// own precision floor and per-iteration overhead once measured.
type Timer struct {
	kind      Kind
	freqHz    float64 // ticks per second, only meaningful for TSC
	precision once.Value[fine.Duration]
	overhead  once.Value[fine.Duration]
}

// NewOS returns a Timer backed by the OS monotonic clock. This never
// fails.
func NewOS() *Timer {
	return &Timer{kind: OS}
}

// NewTSC returns a Timer backed by the CPU timestamp counter, or a
// TimerUnavailable error if this platform's counter isn't invariant,
// or its frequency can't be established.
//
// Go has no portable way to read the TSC's nominal frequency from an
// MSR without elevated privileges, so frequency is instead derived
// from a short OS-timer calibration window: this is the Open Question
// resolution recorded in DESIGN.md, not a silent approximation.
func NewTSC() (*Timer, error) {
	if !tscSupported() {
		return nil, errs.E(errs.TimerUnavailable, "CPU timestamp counter is not invariant or not present")
	}
	freq, err := calibrateTSCFrequency()
	if err != nil {
		return nil, errs.E(errs.TimerUnavailable, "could not calibrate TSC frequency", err)
	}
	return &Timer{kind: TSC, freqHz: freq}, nil
}

// Kind reports which clock backs t.
func (t *Timer) Kind() Kind { return t.kind }

// Start issues the fence-then-read sequence required before the
// timed region: full fence, then compiler fence, then the timestamp
// read itself.
func (t *Timer) Start() Timestamp {
	Fence()
	CompilerFence()
	return t.read()
}

// End issues the read-then-fence sequence required after the timed
// region: compiler fence, then the timestamp read, then full fence.
func (t *Timer) End() Timestamp {
	CompilerFence()
	ts := t.read()
	Fence()
	return ts
}

func (t *Timer) read() Timestamp {
	if t.kind == TSC {
		return Timestamp(readTSC())
	}
	return Now()
}

// Diff returns the non-negative picosecond duration from start to
// end, clamping to zero on clock non-monotonicity (a CPU timestamp
// read can retire out of order across cores).
func (t *Timer) Diff(start, end Timestamp) fine.Duration {
	if t.kind == OS {
		return DiffOS(start, end)
	}
	if end <= start {
		return fine.Duration{}
	}
	ticks := uint64(end) - uint64(start)
	picos := float64(ticks) * (1e12 / t.freqHz)
	return fine.FromCoarse(time.Duration(picos / 1000))
}

// Precision returns the timer's precision floor: the smallest
// non-zero duration it can resolve. The value is measured once per
// Timer and memoized; spec property 3 ("T.precision() is stable
// across calls") follows directly from once.Value's memoization.
func (t *Timer) Precision() fine.Duration {
	return t.precision.Get(t.measurePrecision)
}

// Overhead returns the average per-iteration duration attributable to
// the empty sample loop itself, to be subtracted from real samples.
// Measured once per Timer and memoized.
func (t *Timer) Overhead() fine.Duration {
	return t.overhead.Get(t.measureOverhead)
}

// measurePrecision repeatedly times an empty region in immediate
// succession, tracking the running minimum non-zero sample. If the
// timer resolves to zero back-to-back, a growing busy-wait is
// interposed to force at least one non-zero sample. Returns once the
// minimum has been observed enough times, or the busy-wait delay
// exceeds a threshold — grounded on spec.md §4.2's measure_precision.
func (t *Timer) measurePrecision() fine.Duration {
	const stableObservations = 100
	const maxBusyWait = 1 << 20

	min := fine.Max
	stableCount := 0
	busy := 1
	for {
		start := t.Start()
		if busy > 1 {
			sinkInt := 0
			for i := 0; i < busy; i++ {
				sinkInt += i
			}
			Sink(sinkInt)
		}
		end := t.End()
		d := t.Diff(start, end)
		if !d.IsZero() {
			if d.Less(min) {
				min = d
				stableCount = 0
			} else if d.Cmp(min) == 0 {
				stableCount++
			}
			if stableCount >= stableObservations {
				return min
			}
		}
		if d.IsZero() {
			if busy < maxBusyWait {
				busy *= 2
			} else if !min.IsZero() {
				return min
			}
		}
	}
}

// measureOverhead runs 100 samples of a 10,000-iteration empty timed
// loop, returning the minimum per-iteration value observed — the
// per-iteration overhead subtracted from real samples.
func (t *Timer) measureOverhead() fine.Duration {
	const samples = 100
	const itersPerSample = 10_000

	min := fine.Max
	for s := 0; s < samples; s++ {
		start := t.Start()
		for i := 0; i < itersPerSample; i++ {
			Sink(i)
		}
		end := t.End()
		total := t.Diff(start, end)
		perIter := total.DivCount(itersPerSample)
		if perIter.Less(min) {
			min = perIter
		}
	}
	if min.Cmp(fine.Max) == 0 {
		return fine.Duration{}
	}
	return min
}

// calibrateTSCFrequency derives TSC ticks-per-second by timing a
// fixed OS-clock window and counting TSC ticks elapsed within it.
func calibrateTSCFrequency() (float64, error) {
	const window = 20 * time.Millisecond

	startTick := readTSC()
	startWall := time.Now()
	for time.Since(startWall) < window {
	}
	endTick := readTSC()
	elapsed := time.Since(startWall)

	if endTick <= startTick || elapsed <= 0 {
		return 0, errs.E(errs.TimerUnavailable, "TSC did not advance during calibration window")
	}
	return float64(endTick-startTick) / elapsed.Seconds(), nil
}
