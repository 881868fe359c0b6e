// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package errs provides a small chainable error type with a fixed
// taxonomy of kinds, used throughout the engine so that callers at the
// CLI boundary can distinguish "the user's benchmark panicked" from
// "the timer backend isn't available on this machine" without string
// matching.
package errs

import (
	"bytes"
	"errors"
	"fmt"
)

// Kind classifies an Error so that callers can branch on it without
// parsing messages.
type Kind int

const (
	// Other is the zero value: an error whose kind hasn't been
	// classified, or that is merely wrapping another *Error.
	Other Kind = iota
	// ConfigError indicates a problem in CLI flags, environment
	// variables, or option composition (e.g. an invalid filter regex,
	// a negative --sample-size).
	ConfigError
	// TimerUnavailable indicates the requested timer backend (the CPU
	// timestamp counter) could not be calibrated or isn't invariant on
	// this machine.
	TimerUnavailable
	// NoMatch indicates a filter matched zero registered entries.
	NoMatch
	// UserPanic indicates the benchmarked function itself panicked.
	// The runner recovers this at the per-entry boundary and continues
	// with the remaining entries.
	UserPanic
	// AllocFailureInProfiler indicates the allocation profiler itself
	// could not read memory statistics for a sample.
	AllocFailureInProfiler
)

var kinds = [...]string{
	Other:                  "error",
	ConfigError:            "config error",
	TimerUnavailable:       "timer unavailable",
	NoMatch:                "no match",
	UserPanic:              "panic",
	AllocFailureInProfiler: "alloc profiler error",
}

// String returns a short, lowercase description of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return "error"
	}
	return kinds[k]
}

// Separator is inserted between chained messages when printing an
// Error's full text. It's a package variable so tests can produce
// stable, diffable output.
var Separator = "\n  "

// Error is the package's error type. It carries a Kind, a message
// describing this link in the chain, and an optional wrapped Err
// (which may itself be an *Error, forming a chain).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// E builds an *Error from a mix of arguments: a Kind (sets e.Kind), an
// error (sets or chains e.Err), and any other argument (formatted with
// fmt.Sprint and appended to e.Message). This mirrors upspin/grail-style
// error constructors so that call sites read like a short sentence:
//
//	errs.E(errs.ConfigError, "sample-size must be positive", err)
func E(args ...interface{}) error {
	if len(args) == 0 {
		return errors.New("errs.E: called with no arguments")
	}
	e := &Error{}
	var msgParts []string
	for _, arg := range args {
		switch v := arg.(type) {
		case Kind:
			e.Kind = v
		case *Error:
			cp := *v
			e.Err = &cp
		case error:
			e.Err = v
		case string:
			msgParts = append(msgParts, v)
		default:
			msgParts = append(msgParts, fmt.Sprint(v))
		}
	}
	if e.Kind == Other {
		if inner, ok := e.Err.(*Error); ok {
			e.Kind = inner.Kind
		}
	}
	e.Message = join(msgParts, ": ")
	return e
}

func join(parts []string, sep string) string {
	var b bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p)
	}
	return b.String()
}

// Error implements the error interface, printing the full chain of
// messages separated by Separator.
func (e *Error) Error() string {
	var b bytes.Buffer
	e.writeError(&b)
	return b.String()
}

func (e *Error) writeError(b *bytes.Buffer) {
	b.WriteString(e.Message)
	if e.Err != nil {
		switch inner := e.Err.(type) {
		case *Error:
			pad(b)
			inner.writeError(b)
		default:
			pad(b)
			b.WriteString(inner.Error())
		}
	}
}

func pad(b *bytes.Buffer) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(Separator)
}

// Unwrap returns e.Err, enabling interoperability with the standard
// library's errors.Is / errors.As / errors.Unwrap.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether e's Kind, found anywhere in its chain, equals
// kind. Other is treated as "unclassified": the search continues past
// it into the wrapped error.
func Is(kind Kind, err error) bool {
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			return false
		}
		if e.Kind == kind {
			return true
		}
		if e.Kind != Other {
			return false
		}
		err = e.Err
	}
	return false
}

// Recover converts err into an *Error, wrapping it with kind Other if
// it isn't already one. Recover(nil) returns a non-nil *Error with a
// generic message so that callers can always call .Error() or inspect
// .Kind safely.
func Recover(err error) *Error {
	if err == nil {
		return &Error{Message: "no error"}
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Err: err}
}

// New is synonymous with errors.New, provided so call sites that
// otherwise only use this package need not also import "errors".
func New(msg string) error { return errors.New(msg) }
