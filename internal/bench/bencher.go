// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package bench

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/silkbench/silkbench/internal/alloc"
	"github.com/silkbench/silkbench/internal/clock"
	"github.com/silkbench/silkbench/internal/deferstore"
	"github.com/silkbench/silkbench/internal/fine"
	"github.com/silkbench/silkbench/internal/must"
	"github.com/silkbench/silkbench/internal/threads"
	"github.com/silkbench/silkbench/stats"

	"github.com/silkbench/silkbench/counter"
)

// Bencher drives one benchmark entry's sample loop. A fresh Bencher is
// built by the runner for every leaf it invokes; the registered
// runner function configures it (Counter, BeforeSample, AfterSample)
// and then calls the package-level Bench or BenchWithInputs exactly
// once to actually run the loop.
type Bencher struct {
	timer      *clock.Timer
	opts       Options
	allocInfo  *alloc.ThreadAllocInfo
	cohort     *threads.Cohort
	collection *stats.Collection

	cnt          *counter.Counter
	beforeSample func()
	afterSample  func()

	ran bool
}

// New constructs a Bencher for one leaf invocation. allocInfo may be
// nil to disable allocation profiling; cohort may be nil to run
// single-threaded.
func New(timer *clock.Timer, opts Options, allocInfo *alloc.ThreadAllocInfo, cohort *threads.Cohort) *Bencher {
	b := &Bencher{timer: timer, opts: opts, allocInfo: allocInfo, cohort: cohort, collection: &stats.Collection{}}
	if opts.Counter != nil {
		c := *opts.Counter
		b.cnt = &c
	}
	return b
}

// Counter attaches a per-iteration work-unit counter, overriding
// anything inherited through BenchOptions.
func (b *Bencher) Counter(c counter.Counter) *Bencher {
	b.cnt = &c
	return b
}

// BeforeSample registers a hook run immediately before each sample's
// timed region, outside the fences.
func (b *Bencher) BeforeSample(fn func()) *Bencher {
	b.beforeSample = fn
	return b
}

// AfterSample registers a hook run immediately after each sample's
// timed region, outside the fences.
func (b *Bencher) AfterSample(fn func()) *Bencher {
	b.afterSample = fn
	return b
}

// Collection returns the samples accumulated by Bench/BenchWithInputs
// so far, for the runner to hand to the stats aggregator.
func (b *Bencher) Collection() *stats.Collection { return b.collection }

// sampleSizeFloorK is the K in spec.md's resolved Open Question:
// calibrate sample_size to the smallest power-of-ten such that
// sample_size*precision >= K*precision (K=1000).
const sampleSizeFloorK = 1000

func effectiveSampleSize(opts Options) uint64 {
	if opts.SampleSize != nil {
		return uint64(*opts.SampleSize)
	}
	size := uint64(1)
	for size < sampleSizeFloorK {
		size *= 10
	}
	return size
}

func effectiveSampleCount(opts Options) uint64 {
	if opts.SampleCount != nil {
		return uint64(*opts.SampleCount)
	}
	return 100
}

// Bench runs a benchmark whose closure needs no runtime input: f is
// called once per iteration and its result is sunk to prevent
// dead-code elimination.
func Bench[O any](b *Bencher, f func() O) {
	BenchWithInputs(b, func() struct{} { return struct{}{} }, func(struct{}) O { return f() })
}

// BenchWithInputs runs a benchmark whose closure consumes a generated
// input: genInput is called once per iteration, entirely outside the
// timed region, before the sample begins; f is then called once per
// iteration inside the timed region using the pre-generated input.
func BenchWithInputs[I, O any](b *Bencher, genInput func() I, f func(I) O) {
	if b.ran {
		panic("silkbench: Bench/BenchWithInputs called more than once on the same Bencher")
	}
	b.ran = true

	if !b.opts.HasSamples() {
		return
	}

	size := effectiveSampleSize(b.opts)
	targetCount := effectiveSampleCount(b.opts)
	maxTime := b.opts.MaxTimeDuration()
	if maxTime.IsZero() {
		return
	}
	minTime := b.opts.MinTimeDuration()
	skipExt := b.opts.EffectiveSkipExtTime()

	for _, nThreads := range b.opts.EffectiveThreads() {
		if nThreads <= 0 {
			nThreads = runtime.GOMAXPROCS(0)
		}
		runSweep(b, genInput, f, size, targetCount, minTime, maxTime, skipExt, nThreads)
	}
}

// runSweep executes the sample-loop exit predicate of spec.md §4.8
// for one thread-count value in the sweep, appending every recorded
// sample to b's collection.
func runSweep[I, O any](b *Bencher, genInput func() I, f func(I) O, size, targetCount uint64, minTime, maxTime fine.Duration, skipExt bool, nThreads int) {
	var elapsed fine.Duration
	remaining := targetCount
	wallStart := time.Now()

	for {
		if elapsed.Cmp(maxTime) >= 0 {
			return
		}
		if remaining == 0 && elapsed.Cmp(minTime) >= 0 {
			return
		}
		if remaining > 0 {
			remaining--
		}

		sample := runOneSample(b, genInput, f, size, nThreads)
		b.collection.Add(sample)

		if skipExt {
			floor := fine.FromPicos(0, 1)
			elapsed = elapsed.Add(fine.Max2(sample.TotalDuration, floor))
		} else {
			elapsed = fine.FromCoarse(time.Since(wallStart))
		}
	}
}

// runOneSample executes exactly one sample, single-threaded or fanned
// out across b.cohort when nThreads > 1.
func runOneSample[I, O any](b *Bencher, genInput func() I, f func(I) O, size uint64, nThreads int) stats.Sample {
	if nThreads <= 1 || b.cohort == nil {
		return runBatch(b.timer, b.allocInfo, b.cnt, b.beforeSample, b.afterSample, genInput, f, size)
	}
	return runCohortSample(b, genInput, f, size, nThreads)
}

// runCohortSample fans one sample out across b.cohort's worker
// threads, each running its own share of the iterations, then
// combines the cohort into a single stats.Sample: the reported
// duration is the slowest worker's duration (approximating "earliest
// start to latest end" — see DESIGN.md's Open Question resolution)
// and the iteration count is the sum across workers, so cohorts of
// different sizes remain comparable on a per-iteration basis.
func runCohortSample[I, O any](b *Bencher, genInput func() I, f func(I) O, size uint64, nThreads int) stats.Sample {
	perWorker := size / uint64(nThreads)
	if perWorker == 0 {
		perWorker = 1
	}

	// runtime.MemStats is one process-wide counter, not a per-goroutine
	// one, so there is no way to hand each cohort worker its own
	// isolated Mallocs/Frees delta: two workers bracketing the same
	// counter concurrently would each see the other's allocations drift
	// into their own delta. Bracketing once around the whole fan-out
	// instead of once per worker keeps the single Begin/End pair
	// single-threaded (only this goroutine ever touches alloc.Sample),
	// so the reported Alloc/Dealloc is an exact total for the sample
	// rather than a racy, double-counted per-worker sum. Workers
	// themselves run with allocation profiling off (nil allocInfo).
	var allocSample alloc.Sample
	hasAlloc := b.allocInfo != nil
	if hasAlloc {
		allocSample = alloc.Begin(b.allocInfo)
	}

	results := b.cohort.Run(func() (interface{}, error) {
		return runBatch(b.timer, nil, b.cnt, b.beforeSample, b.afterSample, genInput, f, perWorker), nil
	})

	var combined stats.Sample
	for _, r := range results {
		if err := r.Err(); err != nil {
			// A worker's task fails only by panicking; re-raise it so the
			// runner's per-entry recover reports the entry as failed.
			panic(err)
		}
		s, ok := r.Value().(stats.Sample)
		must.Truef(ok, "cohort worker returned %T, want stats.Sample", r.Value())
		combined.TotalDuration = fine.Max2(combined.TotalDuration, s.TotalDuration)
		combined.Size += s.Size
		if s.HasCounter {
			combined.HasCounter = true
			combined.CounterTotal += s.CounterTotal
		}
	}
	if hasAlloc {
		delta := allocSample.End()
		combined.Alloc = delta.Alloc
		combined.Dealloc = delta.Dealloc
	}
	return combined
}

// runBatch executes one sample's worth of iterations, implementing
// the structural deferred-store path described in spec.md §4.8.
func runBatch[I, O any](timer *clock.Timer, allocInfo *alloc.ThreadAllocInfo, cnt *counter.Counter, beforeSample, afterSample func(), genInput func() I, f func(I) O, size uint64) stats.Sample {
	var zeroI I
	var zeroO O
	zeroSizedInput := unsafe.Sizeof(zeroI) == 0
	zeroSizedOutput := unsafe.Sizeof(zeroO) == 0
	needsStore := deferstore.NeedsStore[I](zeroSizedInput, zeroSizedOutput)

	var store deferstore.Store[I, O]
	if needsStore {
		store.Prepare(int(size))
		for i := uint64(0); i < size; i++ {
			store.SetInput(int(i), genInput())
		}
	} else {
		for i := uint64(0); i < size; i++ {
			genInput()
		}
	}

	if beforeSample != nil {
		beforeSample()
	}

	var allocSample alloc.Sample
	hasAlloc := allocInfo != nil
	if hasAlloc {
		allocSample = alloc.Begin(allocInfo)
	}

	start := timer.Start()

	if needsStore {
		for i := uint64(0); i < size; i++ {
			out := f(store.Input(int(i)))
			store.SetOutput(int(i), out)
		}
	} else {
		for i := uint64(0); i < size; i++ {
			clock.Sink(f(zeroI))
		}
	}

	end := timer.End()

	var delta alloc.SampleDelta
	if hasAlloc {
		delta = allocSample.End()
	}

	if afterSample != nil {
		afterSample()
	}

	if needsStore {
		store.DropOutputs()
		store.DropInputs()
	}

	total := timer.Diff(start, end)
	overhead := timer.Overhead().MulCount(size)
	total = total.Sub(overhead)

	sample := stats.Sample{
		TotalDuration: total,
		Size:          size,
		Alloc:         delta.Alloc,
		Dealloc:       delta.Dealloc,
	}
	if cnt != nil {
		sample.HasCounter = true
		sample.CounterTotal = cnt.N() * size
	}
	return sample
}
