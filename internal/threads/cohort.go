// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package threads

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Cohort is a fixed-size pool of persistent worker goroutines used to
// run a single benchmark's sample loop on multiple threads
// simultaneously. Unlike Traverse, which spins up goroutines per
// call, a Cohort's workers are started once and reused across every
// sample in a benchmark's run: starting a goroutine per sample would
// add scheduling noise to the very thing being measured.
//
// Each worker pins itself to an OS thread with runtime.LockOSThread,
// matching the one-goroutine-per-OS-thread model the sample loop's
// timing assumes.
type Cohort struct {
	workers []cohortWorker
}

type cohortWorker struct {
	task   chan func() (interface{}, error)
	result chan cohortResult
}

type cohortResult struct {
	value interface{}
	err   error
}

type panicResult struct {
	v     interface{}
	stack []byte
}

func (p panicResult) Error() string { return fmt.Sprintf("panic on cohort worker: %v", p.v) }

// NewCohort starts n persistent worker goroutines. n must be >= 1.
func NewCohort(n int) *Cohort {
	if n < 1 {
		n = 1
	}
	c := &Cohort{workers: make([]cohortWorker, n)}
	for i := range c.workers {
		w := &c.workers[i]
		w.task = make(chan func() (interface{}, error))
		w.result = make(chan cohortResult)
		go w.run()
	}
	return c
}

func (w *cohortWorker) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for task := range w.task {
		value, err := w.apply(task)
		w.result <- cohortResult{value, err}
	}
}

func (w *cohortWorker) apply(task func() (interface{}, error)) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicResult{r, debug.Stack()}
		}
	}()
	return task()
}

// Run dispatches task to every worker in the cohort simultaneously,
// blocks until all have finished, and returns their results in worker
// order. A worker whose task panics reports a non-nil error for that
// slot rather than bringing down the process; the caller (the
// runner's per-entry boundary) decides how to surface it.
func (c *Cohort) Run(task func() (interface{}, error)) []cohortResult {
	for i := range c.workers {
		c.workers[i].task <- task
	}
	results := make([]cohortResult, len(c.workers))
	for i := range c.workers {
		results[i] = <-c.workers[i].result
	}
	return results
}

// Value returns r's successful value, or nil if r.Err != nil.
func (r cohortResult) Value() interface{} { return r.value }

// Err returns r's error, unwrapping a recovered panic's message.
func (r cohortResult) Err() error {
	if pr, ok := r.err.(panicResult); ok {
		return panicResult{pr.v, pr.stack}
	}
	return r.err
}

// N reports the number of worker threads in the cohort.
func (c *Cohort) N() int { return len(c.workers) }

// Close stops every worker goroutine. Close must be called exactly
// once per Cohort, after its last Run, or the worker goroutines leak.
func (c *Cohort) Close() {
	for i := range c.workers {
		close(c.workers[i].task)
	}
}
