// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import "sort"

// TidyRow is one (group key, metric, value) triple.
type TidyRow struct {
	Key    []string `json:"key"`
	Metric string   `json:"metric"`
	Value  Float    `json:"value"`
}

// Reshape converts wide aggregate rows into tidy rows: for each row
// and then for each name in metrics, it emits one TidyRow. Missing
// values, including metrics a row does not have, are emitted as
// Null rather than dropped.
func Reshape(rows []AggregateRow, metrics []string) []TidyRow {
	out := make([]TidyRow, 0, len(rows)*len(metrics))
	for _, r := range rows {
		for _, m := range metrics {
			out = append(out, TidyRow{Key: append([]string(nil), r.Key...), Metric: m, Value: r.Values[m]})
		}
	}
	return out
}

// SortByLevels returns a copy of rows stably sorted by the order of
// Key[dim] in levels. Rows whose key is not in levels sort after
// all listed levels, in their original order.
func SortByLevels(rows []AggregateRow, dim int, levels []string) []AggregateRow {
	rank := make(map[string]int, len(levels))
	for i, l := range levels {
		rank[l] = i
	}
	pos := func(r AggregateRow) int {
		if dim < len(r.Key) {
			if i, ok := rank[r.Key[dim]]; ok {
				return i
			}
		}
		return len(levels)
	}
	out := append([]AggregateRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return pos(out[i]) < pos(out[j])
	})
	return out
}

// SortByMetric returns a copy of rows stably sorted by the value of
// metric name, ascending or, if desc, descending. Missing values
// sort last in either direction.
func SortByMetric(rows []AggregateRow, name string, desc bool) []AggregateRow {
	out := append([]AggregateRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Values[name], out[j].Values[name]
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		if desc {
			return a.V > b.V
		}
		return a.V < b.V
	})
	return out
}
