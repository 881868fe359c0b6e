// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package deferstore implements the hot sample loop's scratch space:
// a contiguous vector of paired input/output slots, so that
// generating inputs and destroying outputs can happen outside the
// timed region while the timed region itself only reads an
// already-prepared input and writes a result.
package deferstore

// record pairs one input with its eventual output. Input precedes
// output in memory in every record, matching the layout invariant a
// prefetcher walking the slice low-to-high address relies on.
type record[I, O any] struct {
	in  I
	out O
}

// Store is a vector of paired input/output slots used by one
// sample's timed region. The zero Store is empty; call Prepare before
// use.
type Store[I, O any] struct {
	records []record[I, O]
}

// Prepare resizes the store to hold exactly n records. Existing
// backing storage is reused when large enough, avoiding a reallocation
// between samples of the same size.
func (s *Store[I, O]) Prepare(n int) {
	if cap(s.records) >= n {
		s.records = s.records[:n]
		return
	}
	s.records = make([]record[I, O], n)
}

// Len returns the number of slots currently prepared.
func (s *Store[I, O]) Len() int { return len(s.records) }

// SetInput initializes slot i's input. Must be called for every slot
// before the timed region begins.
func (s *Store[I, O]) SetInput(i int, in I) { s.records[i].in = in }

// Input returns slot i's input.
func (s *Store[I, O]) Input(i int) I { return s.records[i].in }

// Output returns slot i's output.
func (s *Store[I, O]) Output(i int) O { return s.records[i].out }

// SetOutput records slot i's output. Called from inside the timed
// region; the store makes no attempt to destroy the prior output here
// — that happens in DropOutputs, after the timed region ends.
func (s *Store[I, O]) SetOutput(i int, out O) { s.records[i].out = out }

// DropOutputs releases every slot's output by overwriting it with the
// zero value, invoked once after the timed region completes. For a
// non-pointer, no-finalizer O this is a no-op destructor; for a type
// that holds memory (e.g. a slice or map), this is what lets the
// runtime reclaim it outside the measured window.
func (s *Store[I, O]) DropOutputs() {
	var zero O
	for i := range s.records {
		s.records[i].out = zero
	}
}

// DropInputs releases every slot's input the same way, called after
// DropOutputs. Kept as a distinct pass (rather than folded into
// DropOutputs) to mirror the output-then-input destruction order the
// sample loop promises: a slot's output may reference its input
// (e.g. a slice into the input buffer), so outputs must go first.
func (s *Store[I, O]) DropInputs() {
	var zero I
	for i := range s.records {
		s.records[i].in = zero
	}
}

// NeedsStore reports whether a benchmark with this input/output shape
// needs the deferred-slot store at all, or whether the degenerate
// no-store structural path applies. Per spec.md §4.8, that's when the
// input is zero-sized and the output is trivial: NeedsStore returns
// false only when both zeroSizedInput and outputTrivial are true. Go
// has no needs_drop query, so the sample loop passes "O is
// zero-sized" as outputTrivial.
func NeedsStore[I any](zeroSizedInput bool, outputTrivial bool) bool {
	return !(zeroSizedInput && outputTrivial)
}
