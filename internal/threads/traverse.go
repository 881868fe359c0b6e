// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package threads provides two complementary concurrency primitives:
// Traverse, a one-shot fan-out for running independent tasks
// concurrently, and Cohort, a set of persistent worker goroutines that
// the runner uses to run a single benchmark's sample loop on multiple
// threads at once (see cohort.go). The runner does not use Traverse.
package threads

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/silkbench/silkbench/internal/errs"
)

type panicErr struct {
	v     interface{}
	stack []byte
}

func (p panicErr) Error() string { return fmt.Sprint(p.v) }

// Traverse is a traversal of a given length. Instantiate with Each or
// Parallel.
type Traverse struct {
	n, maxConcurrent, nshards int
	debugStatus               *status
}

// Each creates a new traversal of length n appropriate for
// concurrent traversal (unbounded concurrency).
func Each(n int) Traverse {
	return Traverse{n, n, 0, nil}
}

// Parallel creates a new traversal of length n, bounded to
// runtime.NumCPU() concurrent workers.
func Parallel(n int) Traverse {
	return Each(n).Limit(runtime.NumCPU())
}

// Limit bounds the traversal's concurrency to maxConcurrent.
func (t Traverse) Limit(maxConcurrent int) Traverse {
	t.maxConcurrent = maxConcurrent
	return t
}

// Sharded divides the traversal into nshards contiguous ranges
// instead of one goroutine per index, useful when processing each
// index is cheap relative to goroutine dispatch overhead.
func (t Traverse) Sharded(nshards int) Traverse {
	t.nshards = nshards
	return t
}

// WithReporter reports queued/running/done job counts to reporter as
// the traversal progresses.
func (t Traverse) WithReporter(reporter Reporter) Traverse {
	t.debugStatus = &status{mu: &sync.Mutex{}, reporter: reporter}
	return t
}

// Do invokes op for each index 0 <= i < t.n, returning the first
// non-nil error. Traversal stops early on error. A panic inside op is
// recovered and re-raised from the calling goroutine with its
// original stack trace attached.
func (t Traverse) Do(op func(i int) error) (err error) {
	return t.DoRange(func(start, end int) error {
		for i := start; i < end && err == nil; i++ {
			err = op(i)
		}
		return err
	})
}

// DoRange is Do, but op receives a contiguous [start, end) range
// rather than a single index, amortizing dispatch overhead when
// Sharded is in effect.
func (t Traverse) DoRange(op func(start, end int) error) error {
	if t.n == 0 {
		return nil
	}

	numShards := t.n
	shardSize := 1
	if t.nshards > 0 {
		numShards = min(t.nshards, t.n)
		shardSize = (t.n + t.nshards - 1) / t.nshards
	}
	if numShards < t.maxConcurrent {
		t.maxConcurrent = numShards
	}

	var firstErr errs.Once
	apply := func(i int) (err error) {
		defer func() {
			if perr := recover(); perr != nil {
				err = panicErr{perr, debug.Stack()}
			}
		}()
		start := i * shardSize
		return op(start, min(start+shardSize, t.n))
	}

	var wg sync.WaitGroup
	wg.Add(t.maxConcurrent)
	t.debugStatus.queueJobs(int32(numShards))

	var x int64 = -1
	for i := 0; i < t.maxConcurrent; i++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&x, 1))
				if i >= numShards || firstErr.Err() != nil {
					return
				}
				t.debugStatus.startJob()
				err := apply(i)
				t.debugStatus.finishJob()
				if err != nil {
					firstErr.Set(err)
					return
				}
			}
		}()
	}

	wg.Wait()
	if found := firstErr.Err(); found != nil {
		if pe, ok := found.(panicErr); ok {
			panic(fmt.Sprintf("traverse child: %s\n%s", pe.v, string(pe.stack)))
		}
		return found
	}
	return nil
}

// Reporter reports progress on traverse jobs.
type Reporter interface {
	Report(queued, running, done int32)
}

// DefaultReporter prints queued/running/done counts to stderr.
type DefaultReporter struct {
	Name string
}

func (reporter DefaultReporter) Report(queued, running, done int32) {
	fmt.Fprintf(os.Stderr, "%s: (queued: %d -> running: %d -> done: %d) \r", reporter.Name, queued, running, done)
	if queued == 0 && running == 0 {
		fmt.Fprintf(os.Stderr, "\n")
	}
}

type status struct {
	mu       *sync.Mutex
	reporter Reporter
	queued   int32
	done     int32
	running  int32
}

func (s *status) queueJobs(numjobs int32) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.queued += numjobs
	s.reporter.Report(s.queued, s.running, s.done)
	s.mu.Unlock()
}

func (s *status) startJob() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.queued--
	s.running++
	s.reporter.Report(s.queued, s.running, s.done)
	s.mu.Unlock()
}

func (s *status) finishJob() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.running--
	s.done++
	s.reporter.Report(s.queued, s.running, s.done)
	s.mu.Unlock()
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}
