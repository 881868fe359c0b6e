// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package runner_test

import (
	"testing"

	"github.com/silkbench/silkbench/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSetEmptyMatchesEverything(t *testing.T) {
	fs, err := runner.NewFilterSet(nil, nil, false)
	require.NoError(t, err)
	assert.True(t, fs.Match("a::b::c"))
}

func TestFilterSetPositiveRegex(t *testing.T) {
	fs, err := runner.NewFilterSet([]string{"^a::b"}, nil, false)
	require.NoError(t, err)
	assert.True(t, fs.Match("a::b::c"))
	assert.False(t, fs.Match("x::y"))
}

func TestFilterSetExactMatch(t *testing.T) {
	fs, err := runner.NewFilterSet([]string{"a::b"}, nil, true)
	require.NoError(t, err)
	assert.True(t, fs.Match("a::b"))
	assert.False(t, fs.Match("a::b::c"))
}

func TestFilterSetNegativeTakesPriority(t *testing.T) {
	fs, err := runner.NewFilterSet([]string{"a::b"}, []string{"a::b"}, true)
	require.NoError(t, err)
	assert.False(t, fs.Match("a::b"))
}

func TestFilterSetSkipOnly(t *testing.T) {
	fs, err := runner.NewFilterSet(nil, []string{"slow"}, false)
	require.NoError(t, err)
	assert.True(t, fs.Match("a::fast"))
	assert.False(t, fs.Match("a::slow_thing"))
}

func TestFilterSetInvalidRegexErrors(t *testing.T) {
	_, err := runner.NewFilterSet([]string{"("}, nil, false)
	assert.Error(t, err)
}
