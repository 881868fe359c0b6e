// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package silkbench is a statistical microbenchmarking engine: write
// a function, register it with Bench, and let silkbench's runner
// calibrate a sample size, run enough samples to reach a time budget,
// and report order statistics over wall time, throughput counters,
// and allocations.
//
// A minimal benchmark:
//
//	func init() {
//		silkbench.Bench("strings::join", func(b *silkbench.Bencher) {
//			parts := []string{"a", "b", "c"}
//			silkbench.BenchFunc(b, func() string {
//				return strings.Join(parts, ",")
//			})
//		})
//	}
//
//	func main() { os.Exit(silkbench.Main()) }
package silkbench

import (
	"runtime"
	"strings"
	"time"

	"github.com/silkbench/silkbench/counter"
	"github.com/silkbench/silkbench/internal/bench"
	"github.com/silkbench/silkbench/internal/entry"
	"github.com/silkbench/silkbench/internal/runner"
)

// Bencher drives one benchmark's sample loop. See BenchFunc and
// BenchFuncWithInputs.
type Bencher = bench.Bencher

// BenchFunc runs a benchmark whose closure needs no per-iteration
// input, timing f itself.
func BenchFunc[O any](b *Bencher, f func() O) { bench.Bench(b, f) }

// BenchFuncWithInputs runs a benchmark whose closure consumes a
// generated input: genInput is called once per iteration outside the
// timed region; f is then timed using the pre-generated value.
func BenchFuncWithInputs[I, O any](b *Bencher, genInput func() I, f func(I) O) {
	bench.BenchWithInputs(b, genInput, f)
}

// Sink discards v in a way the optimizer can't see through. Wrap a
// benchmarked function's return value in Sink (or simply return it
// from the closure passed to BenchFunc, which does this
// automatically) to prevent the compiler from eliminating the very
// work being measured as dead code.
func Sink[T any](v T) {
	var a any = v
	sinkStore(a)
}

//go:noinline
func sinkStore(a any) { sinkVar = a }

var sinkVar any

// Options configures a benchmark or benchmark group: sample count and
// size, the min/max time budget, a throughput counter, a thread-count
// sweep, and the ignore flag. Each With* method returns a copy with
// that one field set, so calls chain: Options{}.WithMaxTime(d).WithThreads(1, 4).
type Options struct{ inner bench.Options }

// WithSampleCount sets the nominal number of samples recorded
// (default 100). Sampling continues past it until the minimum time is
// reached, and stops before it once the maximum time is reached.
func (o Options) WithSampleCount(n uint32) Options { o.inner.SampleCount = &n; return o }

// WithSampleSize fixes the number of iterations per sample, overriding
// calibration.
func (o Options) WithSampleSize(n uint32) Options { o.inner.SampleSize = &n; return o }

// WithMinTime sets the minimum wall time to spend sampling.
func (o Options) WithMinTime(d time.Duration) Options { o.inner.MinTime = &d; return o }

// WithMaxTime sets the maximum wall time to spend sampling.
func (o Options) WithMaxTime(d time.Duration) Options { o.inner.MaxTime = &d; return o }

// WithSkipExtTime excludes generator/drop time from the time budget
// when true.
func (o Options) WithSkipExtTime(v bool) Options { o.inner.SkipExtTime = &v; return o }

// WithCounter attaches a per-iteration throughput counter (see
// counter.OfBytes, counter.OfItems, counter.OfChars).
func (o Options) WithCounter(c counter.Counter) Options { o.inner.Counter = &c; return o }

// WithThreads sets the thread-count sweep. 0 means "available
// parallelism".
func (o Options) WithThreads(n ...int) Options { o.inner.Threads = n; return o }

// WithIgnore marks the benchmark ignored: skipped unless
// --include-ignored or --ignored selects it explicitly.
func (o Options) WithIgnore(v bool) Options { o.inner.Ignore = &v; return o }

// splitPath parses a "module::path::leaf" registration name into its
// module-path prefix and leaf display name, matching the module-path
// syntax internal/entry and internal/tree already key benchmarks by.
func splitPath(name string) (modulePath, displayName string) {
	idx := strings.LastIndex(name, "::")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len("::"):]
}

// callerLocation captures the file/line of the Bench/BenchGroup call
// site, skip frames above this package's own wrappers.
func callerLocation(skip int) entry.Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return entry.Location{}
	}
	return entry.Location{File: file, Line: uint32(line)}
}

// Bench registers a benchmark under a "::"-separated module path
// (e.g. "strings::join"); the final component is its display name. f
// is invoked once per run to configure and drive a Bencher.
func Bench(name string, f func(b *Bencher), opts ...Options) {
	modulePath, displayName := splitPath(name)
	loc := callerLocation(1)
	entry.Register(&entry.BenchEntry{
		Meta: entry.Meta{
			DisplayName: displayName,
			RawName:     displayName,
			ModulePath:  modulePath,
			Location:    loc,
			GetOptions:  optionsGetter(opts),
		},
		Runner: entry.Runner{Plain: f},
	})
}

// BenchArgs registers an argument-sweep benchmark: f is invoked once
// per value in args, each with its own Bencher, and the runner pools
// every value's samples into one combined result for the entry. name
// labels each value that can't use %v directly (string- and
// fmt.Stringer-typed args are labeled automatically); reports do not
// show these labels.
func BenchArgs[T any](benchName string, args []T, name func(T) string, f func(b *Bencher, arg T), opts ...Options) {
	modulePath, displayName := splitPath(benchName)
	loc := callerLocation(1)
	ar := entry.NewArgsRunner(args, name, f)
	entry.Register(&entry.BenchEntry{
		Meta: entry.Meta{
			DisplayName: displayName,
			RawName:     displayName,
			ModulePath:  modulePath,
			Location:    loc,
			GetOptions:  optionsGetter(opts),
		},
		Runner: entry.Runner{Args: func() entry.ArgsRunner { return ar }},
	})
}

// BenchGroup registers shared options for every benchmark whose
// module path is (or descends from) name, without itself being a
// runnable entry.
func BenchGroup(name string, opts ...Options) {
	loc := callerLocation(1)
	modulePath, displayName := splitPath(name)
	entry.RegisterGroup(&entry.GroupEntry{
		Meta: entry.Meta{
			DisplayName: displayName,
			RawName:     displayName,
			ModulePath:  modulePath,
			Location:    loc,
			GetOptions:  optionsGetter(opts),
		},
	})
}

func optionsGetter(opts []Options) func() bench.Options {
	if len(opts) == 0 {
		return nil
	}
	merged := opts[0].inner
	for _, o := range opts[1:] {
		merged = o.inner.Overwrite(merged)
	}
	return func() bench.Options { return merged }
}

// Main parses os.Args and runs every registered benchmark matching the
// resulting filters, writing a report to stdout. It returns the
// process's intended exit status.
func Main() int { return runner.Main() }
