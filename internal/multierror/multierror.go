// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package multierror aggregates errors raised by independent entries
// (benchmarks or groups) during a single run, so that one entry's
// panic or timer failure doesn't stop the driver from visiting the
// rest of the tree.
package multierror

import (
	"fmt"
	"strings"
	"sync"
)

// MultiError collects errors surfaced by a run's failed entries.
// Usage:
//
//	errs := NewMultiError(len(entries))
//	for _, e := range entries {
//	  go func(e *Entry) { errs.Add(run(e)) }(e)
//	}
//	// wait for completion
//	return errs.ErrorOrNil()
//
// Beyond cap entries are dropped but counted, so a run with thousands
// of failing entries doesn't build an unbounded error list.
type MultiError struct {
	errs  []error
	count int64
	mu    sync.Mutex
}

// NewMultiError creates a MultiError that retains up to max errors verbatim.
func NewMultiError(max int) *MultiError {
	return &MultiError{errs: make([]error, 0, max)}
}

func (me *MultiError) add(err error) {
	if len(me.errs) == cap(me.errs) {
		me.count++
		return
	}
	me.errs = append(me.errs, err)
}

// Add records an error from one entry's run. A nil err, or a nil
// receiver, is a no-op, so Add can be called unconditionally from a
// deferred recover.
func (me *MultiError) Add(err error) {
	if err == nil || me == nil {
		return
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	if multi, ok := err.(*MultiError); ok {
		for _, e := range multi.errs {
			me.add(e)
		}
		me.count += multi.count
		return
	}
	me.add(err)
}

// Error implements the error interface.
func (me *MultiError) Error() string {
	if me == nil {
		return ""
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	if len(me.errs) == 0 {
		return ""
	}
	if len(me.errs) == 1 && me.count == 0 {
		return me.errs[0].Error()
	}
	s := make([]string, len(me.errs))
	for i, e := range me.errs {
		s[i] = e.Error()
	}
	joined := strings.Join(s, "\n")
	if me.count == 0 {
		return fmt.Sprintf("[%s]", joined)
	}
	return fmt.Sprintf("[%s] [plus %d more entry failure(s)]", joined, me.count)
}

// ErrorOrNil returns nil if no entry failed, else me.
func (me *MultiError) ErrorOrNil() error {
	if me == nil {
		return nil
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	if len(me.errs) == 0 {
		return nil
	}
	return me
}

// Len returns the number of entries that failed, including those
// dropped past the capacity given to NewMultiError.
func (me *MultiError) Len() int {
	if me == nil {
		return 0
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	return len(me.errs) + int(me.count)
}
