// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package entry

import (
	"sync"

	"github.com/silkbench/silkbench/internal/bench"
)

// ArgsRunner is the core's untyped handle onto an argument-sweep
// benchmark: a list of names and a way to run the benchmark at a
// given index. spec.md's Rust original erases the argument type
// behind a TypeId check resolved at call time; Go generics make that
// unnecessary; NewArgsRunner below wraps a concrete generic driver
// behind this interface once, at registration time, so dispatch here
// is an ordinary interface call rather than a runtime type check.
type ArgsRunner interface {
	ArgNames() []string
	Len() int
	Run(b *bench.Bencher, index int)
}

type argsRunner[T any] struct {
	names []string
	args  []T
	run   func(*bench.Bencher, T)
}

// NewArgsRunner builds an ArgsRunner over a concrete argument slice.
// name is called to produce a display name for args whose type isn't
// already a fmt.Stringer or string.
func NewArgsRunner[T any](args []T, name func(T) string, run func(*bench.Bencher, T)) ArgsRunner {
	names := make([]string, len(args))
	for i, a := range args {
		switch v := any(a).(type) {
		case string:
			names[i] = v
		case interface{ String() string }:
			names[i] = v.String()
		default:
			names[i] = name(a)
		}
	}
	return &argsRunner[T]{names: names, args: args, run: run}
}

func (r *argsRunner[T]) ArgNames() []string { return r.names }
func (r *argsRunner[T]) Len() int           { return len(r.args) }
func (r *argsRunner[T]) Run(b *bench.Bencher, index int) { r.run(b, r.args[index]) }

// Runner determines how a BenchEntry is run: either directly with a
// Bencher, or by first resolving an argument sweep.
type Runner struct {
	Plain func(*bench.Bencher)
	Args  func() ArgsRunner
}

// IsArgs reports whether this runner drives an argument sweep.
func (r Runner) IsArgs() bool { return r.Args != nil }

// BenchEntry is a single benchmark registration.
type BenchEntry struct {
	Meta   Meta
	Runner Runner
}

// GroupEntry is a benchmark-group registration: metadata that may
// carry inheritable options for every BenchEntry nested under its
// module path. silkbench has no analogue of divan's generic-type
// benchmark matrix (Go's type system has no const-generic benchmark
// expansion); a GroupEntry here is purely an options-inheritance node.
type GroupEntry struct {
	Meta Meta
}

// registry is an append-only, concurrency-safe list of entries.
type registry[E any] struct {
	mu      sync.Mutex
	entries []*E
}

func (r *registry[E]) register(e *E) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// All returns a snapshot slice of every entry registered so far. The
// registry is append-only; after process init it is read-only from
// the runner's perspective, per spec.md §4.6.
func (r *registry[E]) All() []*E {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*E, len(r.entries))
	copy(out, r.entries)
	return out
}

var (
	// Benches is the process-global append-only list of benchmark
	// entries, populated by Register calls in package init()s.
	Benches registry[BenchEntry]

	// Groups is the process-global append-only list of group entries.
	Groups registry[GroupEntry]
)

// Register appends e to the global benchmark entry list. Entries may
// be registered in any order; the tree builder is order-independent.
func Register(e *BenchEntry) { Benches.register(e) }

// RegisterGroup appends g to the global group entry list.
func RegisterGroup(g *GroupEntry) { Groups.register(g) }

// GroupFor looks up the GroupEntry whose raw name matches rawName, if
// any was registered. Used to attach inherited options to a tree
// Parent node sharing the group's raw name.
func GroupFor(rawName string) *GroupEntry {
	for _, g := range Groups.All() {
		if g.Meta.RawName == rawName {
			return g
		}
	}
	return nil
}

// ResolveOptions composes the option chain outer-group → … →
// innermost-group → entry → cliOverride, where parents is ordered
// outermost-first. Each later layer's set fields replace the prior,
// per spec.md's overwrite rule and §4.6 composition order.
func ResolveOptions(parents []*GroupEntry, entryMeta *Meta, cliOverride bench.Options) bench.Options {
	var composed bench.Options
	for _, g := range parents {
		if g == nil {
			continue
		}
		if opts, ok := g.Meta.Options(); ok {
			composed = opts.Overwrite(composed)
		}
	}
	if entryMeta != nil {
		if opts, ok := entryMeta.Options(); ok {
			composed = opts.Overwrite(composed)
		}
	}
	composed = cliOverride.Overwrite(composed)
	return composed
}
