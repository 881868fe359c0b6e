// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package runner

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/silkbench/silkbench/internal/alloc"
	"github.com/silkbench/silkbench/internal/bench"
	"github.com/silkbench/silkbench/internal/clock"
	"github.com/silkbench/silkbench/internal/entry"
	"github.com/silkbench/silkbench/internal/errs"
	"github.com/silkbench/silkbench/internal/multierror"
	"github.com/silkbench/silkbench/internal/render"
	"github.com/silkbench/silkbench/internal/slog"
	"github.com/silkbench/silkbench/internal/threads"
	"github.com/silkbench/silkbench/internal/tree"
	"github.com/silkbench/silkbench/stats"

	"github.com/silkbench/silkbench/counter"
)

// invocation pairs a tree leaf with its fully composed option set
// (its ancestor groups' options already folded in), computed once
// while walking the filtered, sorted tree.
type invocation struct {
	node *tree.Entry
	opts bench.Options
}

// Run drives one end-to-end benchmarking session: build the tree,
// filter and sort it, resolve options, run (or list) every matching
// entry, and emit the chosen report format to w. It returns the
// process exit status spec.md §6 assigns to each outcome.
func Run(cfg Config, w io.Writer) int {
	counter.SetBytesFormat(cfg.BytesFormat)

	filters, err := NewFilterSet(cfg.Positional, cfg.Skip, cfg.Exact)
	if err != nil {
		slog.Printf("silkbench: %v", err)
		return 2
	}

	roots := tree.Build(entry.Benches.All())
	for _, g := range entry.Groups.All() {
		tree.InsertGroup(roots, g)
	}
	tree.Retain(&roots, filters.Match)
	tree.SortByAttr(roots, cfg.Sort, cfg.SortReverse)

	invocations := collectInvocations(roots, nil, cfg)
	invocations = filterByIgnore(invocations, cfg)

	if len(roots) == 0 || len(invocations) == 0 {
		slog.Printf("silkbench: no benchmarks matched the given filters")
		return 0
	}

	if cfg.List {
		for _, inv := range invocations {
			fmt.Fprintln(w, inv.node.DisplayName())
		}
		return 0
	}

	timer, err := newTimer(cfg.Timer)
	if err != nil {
		slog.Printf("silkbench: %v", err)
		return 2
	}

	unpinCPU := pinCurrentThread()
	defer unpinCPU()

	profiler := alloc.NewProfiler()
	results := make(render.Results, len(invocations))
	failures := multierror.NewMultiError(len(invocations))

	for _, inv := range invocations {
		st, err := runOne(timer, profiler, inv, cfg)
		if err != nil {
			failures.Add(fmt.Errorf("%s: %w", inv.node.DisplayName(), err))
			slog.Printf("silkbench: %s: %v", inv.node.DisplayName(), err)
			continue
		}
		results[inv.node] = st
	}

	if err := renderReport(w, cfg, roots, results, timer); err != nil {
		slog.Printf("silkbench: writing report: %v", err)
		return 2
	}

	if failures.ErrorOrNil() != nil {
		return 1
	}
	return 0
}

// collectInvocations walks the (already filtered and sorted) tree
// depth-first, composing each leaf's option set with the group chain
// it descends through and the CLI override, per entry.ResolveOptions's
// outer-to-inner composition order.
func collectInvocations(nodes []*tree.Entry, parents []*entry.GroupEntry, cfg Config) []invocation {
	var out []invocation
	for _, n := range nodes {
		if n.IsLeaf() {
			opts := entry.ResolveOptions(parents, &n.Leaf().Meta, cfg.CLIOptions)
			out = append(out, invocation{node: n, opts: opts})
			continue
		}
		childParents := parents
		if g := n.Group(); g != nil {
			childParents = append(append([]*entry.GroupEntry{}, parents...), g)
		}
		out = append(out, collectInvocations(n.Children(), childParents, cfg)...)
	}
	return out
}

// filterByIgnore applies the --ignored / --include-ignored policy:
// by default ignored entries are skipped; --include-ignored runs
// everything; --ignored runs only ignored entries.
func filterByIgnore(invocations []invocation, cfg Config) []invocation {
	out := invocations[:0]
	for _, inv := range invocations {
		ignored := inv.opts.EffectiveIgnore()
		switch {
		case cfg.Ignored:
			if ignored {
				out = append(out, inv)
			}
		case cfg.IncludeIgnored:
			out = append(out, inv)
		default:
			if !ignored {
				out = append(out, inv)
			}
		}
	}
	return out
}

// runOne invokes a single entry's registered runner function,
// recovering a panic inside the user's benchmark closure into a
// UserPanic error so the remaining entries still run, per spec.md's
// edge case for a benchmarked function that panics.
func runOne(timer *clock.Timer, profiler *alloc.Profiler, inv invocation, cfg Config) (_ stats.Stats, err error) {
	leaf := inv.node.Leaf()
	if leaf == nil {
		return stats.Stats{}, nil
	}

	opts := inv.opts
	if cfg.Test {
		one := uint32(1)
		opts.SampleSize = &one
		count := uint32(1)
		opts.SampleCount = &count
	}
	if !opts.HasSamples() {
		return stats.Stats{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			// errors.Errorf captures a stack trace at the recover site
			// (formattable with "%+v"), so a UserPanic reported by the
			// runner still points back at the benchmark's own call
			// stack rather than just the runner's recover frame.
			stack := errors.Errorf("%v", r)
			err = errs.E(errs.UserPanic, fmt.Sprintf("%s panicked", inv.node.DisplayName()), stack)
		}
	}()

	allocInfo := profiler.Acquire()
	defer profiler.Release(allocInfo)

	maxThreads := 1
	for _, n := range opts.EffectiveThreads() {
		if resolved := resolveThreadCount(n); resolved > maxThreads {
			maxThreads = resolved
		}
	}
	var cohort *threads.Cohort
	if maxThreads > 1 {
		cohort = threads.NewCohort(maxThreads)
		defer cohort.Close()
	}

	collection := runEntry(timer, opts, allocInfo, cohort, leaf)
	return stats.Compute(collection), nil
}

// resolveThreadCount maps a 0 ("available parallelism") thread-count
// entry to the runtime's GOMAXPROCS.
func resolveThreadCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// runEntry invokes the registered runner function. A plain benchmark
// gets a single Bencher. An argument-sweep benchmark gets one Bencher
// per argument value, since Bencher's sample loop may be driven only
// once; the resulting samples are pooled into one combined Collection,
// so the reported Stats covers every argument value together (the
// argument identity itself isn't load-bearing for the aggregate, only
// for the per-iteration work each closure actually does).
func runEntry(timer *clock.Timer, opts bench.Options, allocInfo *alloc.ThreadAllocInfo, cohort *threads.Cohort, leaf *entry.BenchEntry) *stats.Collection {
	combined := &stats.Collection{}
	if !leaf.Runner.IsArgs() {
		b := bench.New(timer, opts, allocInfo, cohort)
		leaf.Runner.Plain(b)
		combined.Samples = append(combined.Samples, b.Collection().Samples...)
		return combined
	}
	ar := leaf.Runner.Args()
	for i := 0; i < ar.Len(); i++ {
		b := bench.New(timer, opts, allocInfo, cohort)
		ar.Run(b, i)
		combined.Samples = append(combined.Samples, b.Collection().Samples...)
	}
	return combined
}

func newTimer(kind TimerKind) (*clock.Timer, error) {
	switch kind {
	case TimerOS:
		return clock.NewOS(), nil
	case TimerTSC:
		t, err := clock.NewTSC()
		if err != nil {
			return nil, errs.E(errs.TimerUnavailable, "tsc timer requested but unavailable", err)
		}
		return t, nil
	default:
		if t, err := clock.NewTSC(); err == nil {
			return t, nil
		}
		return clock.NewOS(), nil
	}
}

func renderReport(w io.Writer, cfg Config, roots []*tree.Entry, results render.Results, timer *clock.Timer) error {
	switch cfg.Format {
	case FormatJSON:
		return render.JSON(w, roots, results, timer.Precision().String())
	case FormatTerse:
		return render.Terse(w, roots, results)
	default:
		render.NewPretty(w, resolveColor(cfg.Color, w)).Render(roots, results)
		return nil
	}
}

// resolveColor turns the configured tri-state color mode into the
// effective on/off decision for w: Always/Never are unconditional,
// Auto colorizes only when w looks like an interactive terminal.
func resolveColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return render.IsTerminal(w)
	}
}

// Main is a convenience entry point for cmd/silkbench: parse os.Args,
// run, and return the process's exit status.
func Main() int {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		slog.Printf("silkbench: %v", err)
		return 2
	}
	return Run(cfg, os.Stdout)
}
