// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package entry implements the entry registry (C6): the two
// process-global append-only lists of benchmark and group
// registrations, and the option-inheritance composition used to
// derive a per-entry effective option set, per spec.md §4.6.
package entry

import (
	"strings"

	"github.com/silkbench/silkbench/internal/bench"
	"github.com/silkbench/silkbench/internal/once"
)

// Location records where an entry was defined, for the Location sort
// attribute and for diagnostic output.
type Location struct {
	File string
	Line uint32
	Col  uint32
}

// Compare orders locations by file, then line, then column.
func (l Location) Compare(other Location) int {
	if c := strings.Compare(l.File, other.File); c != 0 {
		return c
	}
	if l.Line != other.Line {
		if l.Line < other.Line {
			return -1
		}
		return 1
	}
	if l.Col != other.Col {
		if l.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Meta is metadata common to a BenchEntry and a GroupEntry.
type Meta struct {
	DisplayName string
	RawName     string
	ModulePath  string // "::"-separated components, matching the filter syntax
	Location    Location

	// GetOptions, if set, lazily produces this entry's own
	// (uninherited) option set. The result is memoized the first time
	// Options is called, regardless of how many times a caller asks.
	GetOptions func() bench.Options

	cached once.Value[bench.Options]
}

// Options returns this entry's own option set (not yet composed with
// any parent), memoizing the result of GetOptions. Returns false if no
// GetOptions was registered.
func (m *Meta) Options() (bench.Options, bool) {
	if m.GetOptions == nil {
		return bench.Options{}, false
	}
	return m.cached.Get(m.GetOptions), true
}

// ModulePathComponents splits ModulePath into its "::"-separated
// components.
func (m *Meta) ModulePathComponents() []string {
	if m.ModulePath == "" {
		return nil
	}
	return strings.Split(m.ModulePath, "::")
}
