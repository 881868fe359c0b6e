// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package runner implements the runner (C10): walking the entry tree,
// applying filters and the ignore policy, sorting, constructing the
// per-entry option set, invoking the Bencher and the stats aggregator,
// and emitting output, per spec.md §4.10.
package runner

import (
	"regexp"

	"github.com/silkbench/silkbench/internal/errs"
)

// pattern is one compiled filter: either an exact string match or a
// compiled regular expression, per the CLI's --exact flag.
type pattern struct {
	exact string
	re    *regexp.Regexp
}

func compilePattern(s string, exact bool) (pattern, error) {
	if exact {
		return pattern{exact: s}, nil
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return pattern{}, errs.E(errs.ConfigError, "invalid filter pattern "+s, err)
	}
	return pattern{re: re}, nil
}

func (p pattern) match(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	return p.exact == path
}

// FilterSet holds the positive ("run only paths matching one of
// these") and negative ("--skip": never run paths matching one of
// these") filter lists. Negative filters take priority over positive
// ones, per spec.md §6's CLI surface.
type FilterSet struct {
	positive []pattern
	negative []pattern
}

// NewFilterSet compiles positive and skip patterns. exact selects
// whether patterns are literal-string matches or regular expressions.
func NewFilterSet(positive, skip []string, exact bool) (*FilterSet, error) {
	fs := &FilterSet{}
	for _, s := range positive {
		p, err := compilePattern(s, exact)
		if err != nil {
			return nil, err
		}
		fs.positive = append(fs.positive, p)
	}
	for _, s := range skip {
		p, err := compilePattern(s, exact)
		if err != nil {
			return nil, err
		}
		fs.negative = append(fs.negative, p)
	}
	return fs, nil
}

// Match reports whether path should be retained: it must not match
// any negative (--skip) pattern, and, if any positive patterns were
// given, it must match at least one of them. An empty FilterSet
// matches everything, satisfying spec.md's "applying the runner with
// an empty filter = applying it with no filter at all" property.
func (fs *FilterSet) Match(path string) bool {
	if fs == nil {
		return true
	}
	for _, p := range fs.negative {
		if p.match(path) {
			return false
		}
	}
	if len(fs.positive) == 0 {
		return true
	}
	for _, p := range fs.positive {
		if p.match(path) {
			return true
		}
	}
	return false
}
