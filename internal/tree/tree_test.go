// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/silkbench/silkbench/internal/entry"
	"github.com/silkbench/silkbench/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func benchAt(displayName, modulePath string) *entry.BenchEntry {
	return &entry.BenchEntry{Meta: entry.Meta{DisplayName: displayName, RawName: displayName, ModulePath: modulePath}}
}

func TestBuildGroupsByModulePath(t *testing.T) {
	entries := []*entry.BenchEntry{
		benchAt("c", "a::b"),
		benchAt("x", "a::b"),
	}
	roots := tree.Build(entries)
	require.Len(t, roots, 1)
	a := roots[0]
	assert.Equal(t, "a", a.RawName())
	require.Len(t, a.Children(), 1)
	b := a.Children()[0]
	assert.Equal(t, "b", b.RawName())
	assert.Len(t, b.Children(), 2)
}

func TestBuildIsOrderIndependent(t *testing.T) {
	order1 := tree.Build([]*entry.BenchEntry{benchAt("c", "a::b"), benchAt("x", "a::y")})
	order2 := tree.Build([]*entry.BenchEntry{benchAt("x", "a::y"), benchAt("c", "a::b")})
	assert.Equal(t, treeShape(order1), treeShape(order2))
}

func treeShape(roots []*tree.Entry) []string {
	var out []string
	var walk func(nodes []*tree.Entry, prefix string)
	walk = func(nodes []*tree.Entry, prefix string) {
		for _, n := range nodes {
			path := prefix + n.RawName()
			out = append(out, path)
			walk(n.Children(), path+"/")
		}
	}
	walk(roots, "")
	return out
}

func TestInsertGroupAttachesToMatchingParent(t *testing.T) {
	roots := tree.Build([]*entry.BenchEntry{benchAt("c", "a::b")})
	g := &entry.GroupEntry{Meta: entry.Meta{RawName: "b", ModulePath: "a"}}
	tree.InsertGroup(roots, g)
	b := roots[0].Children()[0]
	assert.Same(t, g, b.Group())
}

func TestInsertGroupWithoutMatchingParentIsDropped(t *testing.T) {
	roots := tree.Build([]*entry.BenchEntry{benchAt("c", "a::b")})
	g := &entry.GroupEntry{Meta: entry.Meta{RawName: "nope", ModulePath: "a::b"}}
	tree.InsertGroup(roots, g)
	// No panic, and nothing attached.
	for _, n := range roots[0].Children() {
		assert.Nil(t, n.Group())
	}
}

func TestRetainDropsNonMatchingLeavesAndChildlessParents(t *testing.T) {
	roots := tree.Build([]*entry.BenchEntry{
		benchAt("c", "a::b"),
		benchAt("c", "a::x"),
	})
	tree.Retain(&roots, func(path string) bool {
		return path == "a::b::c"
	})
	require.Len(t, roots, 1)
	a := roots[0]
	require.Len(t, a.Children(), 1)
	assert.Equal(t, "b", a.Children()[0].RawName())
}

func TestRetainEmptyFilterKeepsEverything(t *testing.T) {
	entries := []*entry.BenchEntry{benchAt("c", "a::b"), benchAt("x", "a::y")}
	roots := tree.Build(entries)
	before := treeShape(roots)
	tree.Retain(&roots, func(string) bool { return true })
	assert.Equal(t, before, treeShape(roots))
}

func TestSortByAttrKindPutsLeavesBeforeParents(t *testing.T) {
	leaf := benchAt("leaf", "")
	parentLeaf := benchAt("inner", "parent")
	roots := tree.Build([]*entry.BenchEntry{parentLeaf, leaf})
	tree.SortByAttr(roots, tree.Kind, false)
	assert.True(t, roots[0].IsLeaf())
}

func TestSortByAttrNameReversed(t *testing.T) {
	roots := tree.Build([]*entry.BenchEntry{benchAt("b", ""), benchAt("a", "")})
	tree.SortByAttr(roots, tree.Name, false)
	assert.Equal(t, "a", roots[0].DisplayName())

	tree.SortByAttr(roots, tree.Name, true)
	assert.Equal(t, "b", roots[0].DisplayName())
}

func TestMaxNameSpanAccountsForDepth(t *testing.T) {
	roots := tree.Build([]*entry.BenchEntry{benchAt("xy", "abcdef")})
	got := tree.MaxNameSpan(roots, 0)
	// "abcdef" at depth 0 (len 6) vs "xy" at depth 1 (len 2 + 4 = 6).
	assert.Equal(t, 6, got)
}
