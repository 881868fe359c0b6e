// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package render

import (
	"encoding/json"
	"io"

	"github.com/silkbench/silkbench/internal/tree"
)

// jsonTimeStats mirrors stats.TimeStats with picosecond counts
// rendered as strings, since a 128-bit picosecond count can exceed
// float64/int64 precision.
type jsonTimeStats struct {
	Fastest string `json:"fastest"`
	Slowest string `json:"slowest"`
	Median  string `json:"median"`
	Mean    string `json:"mean"`
}

type jsonValueStats struct {
	Min    uint64  `json:"min"`
	Max    uint64  `json:"max"`
	Median uint64  `json:"median"`
	Mean   float64 `json:"mean"`
}

type jsonLeaf struct {
	Status      string          `json:"status"`
	SampleCount int             `json:"sample_count,omitempty"`
	IterCount   uint64          `json:"iter_count,omitempty"`
	Time        *jsonTimeStats  `json:"time,omitempty"`
	Counter     *jsonValueStats `json:"counter,omitempty"`
	Alloc       *jsonAllocStats `json:"alloc,omitempty"`
	Dealloc     *jsonAllocStats `json:"dealloc,omitempty"`
}

type jsonAllocStats struct {
	Count jsonValueStats `json:"count"`
	Size  jsonValueStats `json:"size"`
}

// document is the top-level JSON output shape: a precision floor and
// a tree of benchmark results keyed by display name at every level,
// mirroring the teacher's own nested-map JSON output style.
type document struct {
	Precision string                 `json:"precision"`
	Benchmarks map[string]interface{} `json:"benchmarks"`
}

// JSON renders roots and results as pretty-printed JSON to w.
// precision is the timer's precision floor, rendered as a string for
// the same overflow-safety reason as jsonTimeStats's fields.
func JSON(w io.Writer, roots []*tree.Entry, results Results, precision string) error {
	doc := document{
		Precision:  precision,
		Benchmarks: make(map[string]interface{}, len(roots)),
	}
	for _, n := range roots {
		name, value := jsonNode(n, results)
		doc.Benchmarks[name] = value
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func jsonNode(n *tree.Entry, results Results) (string, interface{}) {
	if n.IsLeaf() {
		return n.DisplayName(), jsonLeafValue(n, results)
	}
	children := make(map[string]interface{}, len(n.Children()))
	for _, c := range n.Children() {
		name, value := jsonNode(c, results)
		children[name] = value
	}
	return n.DisplayName(), children
}

func jsonLeafValue(n *tree.Entry, results Results) jsonLeaf {
	st, ok := results[n]
	if !ok {
		return jsonLeaf{Status: "ignored"}
	}
	if st.SampleCount == 0 {
		return jsonLeaf{Status: "empty"}
	}

	leaf := jsonLeaf{
		Status:      "benched",
		SampleCount: st.SampleCount,
		IterCount:   st.IterCount,
		Time: &jsonTimeStats{
			Fastest: st.Time.Min.String(),
			Slowest: st.Time.Max.String(),
			Median:  st.Time.Median.String(),
			Mean:    st.Time.Mean.String(),
		},
	}
	if st.Counter != nil {
		leaf.Counter = &jsonValueStats{Min: st.Counter.Min, Max: st.Counter.Max, Median: st.Counter.Median, Mean: st.Counter.Mean}
	}
	if st.Alloc != nil {
		leaf.Alloc = &jsonAllocStats{
			Count: jsonValueStats{Min: st.Alloc.Count.Min, Max: st.Alloc.Count.Max, Median: st.Alloc.Count.Median, Mean: st.Alloc.Count.Mean},
			Size:  jsonValueStats{Min: st.Alloc.Size.Min, Max: st.Alloc.Size.Max, Median: st.Alloc.Size.Median, Mean: st.Alloc.Size.Mean},
		}
	}
	if st.Dealloc != nil {
		leaf.Dealloc = &jsonAllocStats{
			Count: jsonValueStats{Min: st.Dealloc.Count.Min, Max: st.Dealloc.Count.Max, Median: st.Dealloc.Count.Median, Mean: st.Dealloc.Count.Mean},
			Size:  jsonValueStats{Min: st.Dealloc.Size.Min, Max: st.Dealloc.Size.Max, Median: st.Dealloc.Size.Median, Mean: st.Dealloc.Size.Mean},
		}
	}
	return leaf
}
