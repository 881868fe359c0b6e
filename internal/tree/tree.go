// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package tree implements the entry tree (C7): building a
// module-path tree from the registered entries, filtering, sorting,
// and name-column measurement, per spec.md §4.7.
package tree

import (
	"sort"
	"strings"

	"github.com/silkbench/silkbench/internal/entry"
)

// SortAttr names a sortable attribute of an Entry tree.
type SortAttr int

const (
	// Kind sorts leaves before parents.
	Kind SortAttr = iota
	// Name sorts by display name.
	Name
	// Location sorts by (file, line, column).
	Location
)

// Entry is a node in the module-path tree: either a Leaf wrapping one
// BenchEntry, or a Parent with a raw name, an optional attached group,
// and an ordered list of children.
type Entry struct {
	leaf     *entry.BenchEntry
	rawName  string
	group    *entry.GroupEntry
	children []*Entry
}

// Leaf returns e's underlying BenchEntry, or nil if e is a Parent.
func (e *Entry) Leaf() *entry.BenchEntry { return e.leaf }

// Children returns e's child nodes, empty for a Leaf.
func (e *Entry) Children() []*Entry { return e.children }

// Group returns the group attached to a Parent node, or nil.
func (e *Entry) Group() *entry.GroupEntry { return e.group }

// IsLeaf reports whether e is a terminal benchmark entry.
func (e *Entry) IsLeaf() bool { return e.leaf != nil }

func (e *Entry) kind() int {
	if e.IsLeaf() {
		return 0
	}
	return 1
}

// meta returns e's own metadata: the leaf's, or its attached group's.
func (e *Entry) meta() *entry.Meta {
	if e.leaf != nil {
		return &e.leaf.Meta
	}
	if e.group != nil {
		return &e.group.Meta
	}
	return nil
}

// RawName returns the identifier this node is keyed by for tree
// construction: the leaf's raw name, the attached group's raw name, or
// the bare path component for an ungrouped Parent.
func (e *Entry) RawName() string {
	if e.leaf != nil {
		return e.leaf.Meta.RawName
	}
	if e.group != nil {
		return e.group.Meta.RawName
	}
	return e.rawName
}

// DisplayName returns the node's rendered name: the attached
// metadata's display name if present, else the bare path component.
func (e *Entry) DisplayName() string {
	if m := e.meta(); m != nil {
		return m.DisplayName
	}
	return e.rawName
}

func (e *Entry) location() (entry.Location, bool) {
	if m := e.meta(); m != nil {
		return m.Location, true
	}
	var best entry.Location
	found := false
	for _, c := range e.children {
		if loc, ok := c.location(); ok {
			if !found || loc.Compare(best) < 0 {
				best = loc
				found = true
			}
		}
	}
	return best, found
}

// Build constructs a forest from the given benchmark entries, inserting
// them in (module path, raw name) order. Entries may be registered in
// any order: the resulting tree, including sibling order, depends only
// on each entry's module path and raw name, not on registration order.
func Build(entries []*entry.BenchEntry) []*Entry {
	sorted := append([]*entry.BenchEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i].Meta, &sorted[j].Meta
		if a.ModulePath != b.ModulePath {
			return a.ModulePath < b.ModulePath
		}
		return a.RawName < b.RawName
	})
	var roots []*Entry
	for _, e := range sorted {
		insertEntry(&roots, e, e.Meta.ModulePathComponents())
	}
	return roots
}

func insertEntry(siblings *[]*Entry, e *entry.BenchEntry, remModules []string) {
	if len(remModules) == 0 {
		*siblings = append(*siblings, &Entry{leaf: e})
		return
	}
	current := remModules[0]
	for _, child := range *siblings {
		if !child.IsLeaf() && child.rawNameForInsert() == current {
			insertEntry(&child.children, e, remModules[1:])
			return
		}
	}
	*siblings = append(*siblings, fromPath(e, remModules))
}

// rawNameForInsert returns the raw path component used to match
// existing Parent nodes during construction, ignoring any group
// attached after the fact.
func (e *Entry) rawNameForInsert() string { return e.rawName }

func fromPath(e *entry.BenchEntry, modules []string) *Entry {
	current := modules[0]
	var child *Entry
	if len(modules) == 1 {
		child = &Entry{leaf: e}
	} else {
		child = fromPath(e, modules[1:])
	}
	return &Entry{rawName: current, children: []*Entry{child}}
}

// InsertGroup attaches g to the Parent node matching its module path,
// if one exists. Groups are inserted after the full tree is built from
// leaves, so a group whose path matches no existing parent (i.e. it
// has no benchmarks under it) is silently dropped, per spec.md §4.7.
func InsertGroup(roots []*Entry, g *entry.GroupEntry) {
	siblings := roots
	for _, component := range g.Meta.ModulePathComponents() {
		next := findChild(siblings, component)
		if next == nil {
			return
		}
		siblings = next.children
	}
	for _, candidate := range siblings {
		if !candidate.IsLeaf() && candidate.rawName == g.Meta.RawName {
			candidate.group = g
			return
		}
	}
}

func findChild(siblings []*Entry, rawName string) *Entry {
	for _, s := range siblings {
		if !s.IsLeaf() && s.rawName == rawName {
			return s
		}
	}
	return nil
}

// Retain recursively drops leaves for which filter(fullPath) returns
// false, and drops parents that become childless as a result.
func Retain(roots *[]*Entry, filter func(string) bool) {
	*roots = retain(*roots, "", filter)
}

func retain(nodes []*Entry, parentPath string, filter func(string) bool) []*Entry {
	kept := nodes[:0]
	for _, n := range nodes {
		fullPath := n.DisplayName()
		if parentPath != "" {
			fullPath = parentPath + "::" + fullPath
		}
		if n.IsLeaf() {
			if filter(fullPath) {
				kept = append(kept, n)
			}
			continue
		}
		n.children = retain(n.children, fullPath, filter)
		if len(n.children) > 0 {
			kept = append(kept, n)
		}
	}
	return kept
}

// SortByAttr sorts the tree by attr, with a fixed tie-breaker order of
// the remaining two attributes, recursively over every level.
func SortByAttr(roots []*Entry, attr SortAttr, reverse bool) {
	sort.SliceStable(roots, func(i, j int) bool {
		c := cmpByAttr(roots[i], roots[j], attr)
		if reverse {
			return c > 0
		}
		return c < 0
	})
	for _, n := range roots {
		SortByAttr(n.children, attr, reverse)
	}
}

func tieBreakerOrder(attr SortAttr) [3]SortAttr {
	switch attr {
	case Kind:
		return [3]SortAttr{Kind, Name, Location}
	case Name:
		return [3]SortAttr{Name, Kind, Location}
	default:
		return [3]SortAttr{Location, Kind, Name}
	}
}

func cmpByAttr(a, b *Entry, attr SortAttr) int {
	for _, at := range tieBreakerOrder(attr) {
		var c int
		switch at {
		case Kind:
			c = a.kind() - b.kind()
		case Name:
			c = strings.Compare(a.DisplayName(), b.DisplayName())
		case Location:
			aLoc, aOK := a.location()
			bLoc, bOK := b.location()
			switch {
			case !aOK && !bOK:
				c = 0
			case !aOK:
				c = 1
			case !bOK:
				c = -1
			default:
				c = aLoc.Compare(bLoc)
			}
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// MaxNameSpan returns the widest rendered name span in tree at the
// given starting depth, where each depth level adds 4 columns of
// indentation — used by the pretty-printer to align the stats
// columns.
func MaxNameSpan(tree []*Entry, depth int) int {
	max := 0
	for _, n := range tree {
		span := len([]rune(n.DisplayName())) + depth*4
		if childMax := MaxNameSpan(n.children, depth+1); childMax > span {
			span = childMax
		}
		if span > max {
			max = span
		}
	}
	return max
}
