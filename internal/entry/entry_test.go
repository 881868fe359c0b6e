// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package entry_test

import (
	"testing"

	"github.com/silkbench/silkbench/internal/bench"
	"github.com/silkbench/silkbench/internal/entry"
	"github.com/stretchr/testify/assert"
)

func u32(n uint32) *uint32 { return &n }

func TestResolveOptionsChildOverridesParent(t *testing.T) {
	groupMeta := entry.Meta{GetOptions: func() bench.Options {
		return bench.Options{SampleCount: u32(100), SampleSize: u32(10)}
	}}
	group := &entry.GroupEntry{Meta: groupMeta}

	entryMeta := entry.Meta{GetOptions: func() bench.Options {
		return bench.Options{SampleCount: u32(5)}
	}}

	got := entry.ResolveOptions([]*entry.GroupEntry{group}, &entryMeta, bench.Options{})
	assert.Equal(t, uint32(5), *got.SampleCount)
	assert.Equal(t, uint32(10), *got.SampleSize)
}

func TestResolveOptionsCLIOverridesEverything(t *testing.T) {
	entryMeta := entry.Meta{GetOptions: func() bench.Options {
		return bench.Options{SampleCount: u32(5)}
	}}
	cli := bench.Options{SampleCount: u32(999)}

	got := entry.ResolveOptions(nil, &entryMeta, cli)
	assert.Equal(t, uint32(999), *got.SampleCount)
}

func TestMetaOptionsIsMemoized(t *testing.T) {
	calls := 0
	m := entry.Meta{GetOptions: func() bench.Options {
		calls++
		return bench.Options{}
	}}
	_, _ = m.Options()
	_, _ = m.Options()
	assert.Equal(t, 1, calls)
}

func TestMetaOptionsAbsentWhenNoFactory(t *testing.T) {
	m := entry.Meta{}
	_, ok := m.Options()
	assert.False(t, ok)
}

func TestModulePathComponents(t *testing.T) {
	m := entry.Meta{ModulePath: "a::b::c"}
	assert.Equal(t, []string{"a", "b", "c"}, m.ModulePathComponents())
}

func TestRegisterAppendsEntries(t *testing.T) {
	before := len(entry.Benches.All())
	entry.Register(&entry.BenchEntry{Meta: entry.Meta{RawName: "registered_bench_entry_test"}})
	after := len(entry.Benches.All())
	assert.Equal(t, before+1, after)
}

func TestGroupForFindsByRawName(t *testing.T) {
	entry.RegisterGroup(&entry.GroupEntry{Meta: entry.Meta{RawName: "group_for_test"}})
	got := entry.GroupFor("group_for_test")
	if assert.NotNil(t, got) {
		assert.Equal(t, "group_for_test", got.Meta.RawName)
	}
}

func TestNewArgsRunnerUsesStringArgsAsNames(t *testing.T) {
	r := entry.NewArgsRunner([]string{"a", "b"}, func(string) string { return "?" }, func(*bench.Bencher, string) {})
	assert.Equal(t, []string{"a", "b"}, r.ArgNames())
	assert.Equal(t, 2, r.Len())
}

func TestNewArgsRunnerFormatsNonStringArgs(t *testing.T) {
	r := entry.NewArgsRunner([]int{1, 2, 3}, func(n int) string {
		if n == 1 {
			return "one"
		}
		return "other"
	}, func(*bench.Bencher, int) {})
	assert.Equal(t, []string{"one", "other", "other"}, r.ArgNames())
}
