// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// Op is a summary statistic.
type Op int

const (
	// Mean is the mean of the non-missing values of a column. It
	// is missing if a group has no non-missing values.
	Mean Op = iota

	// Count is the number of rows in a group. It is always
	// defined and does not look at any column.
	Count
)

func (o Op) String() string {
	switch o {
	case Mean:
		return "mean"
	case Count:
		return "count"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp parses "mean" or "count".
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(s) {
	case "mean", "avg":
		return Mean, nil
	case "count", "size":
		return Count, nil
	}
	return 0, fmt.Errorf("unknown op %q", s)
}

// A Metric is a named statistic of a column.
type Metric struct {
	Name   string
	Column Column
	Op     Op
}

// AggregateRow is the summary of one group.
type AggregateRow struct {
	// Key holds the group's value of each grouping dimension.
	Key []string `json:"key"`

	// Values maps metric names to their value in this group.
	Values map[string]Float `json:"values"`
}

// Value returns the value of metric name, or Null if r has no such
// metric.
func (r AggregateRow) Value(name string) Float {
	return r.Values[name]
}

// Aggregate groups rows by the values of the groupBy columns and
// computes metrics for each group.
//
// groupBy must name one or two columns. Rows with a missing value in
// any grouping column belong to no group. Groups appear in order of
// their first row, so one row is produced per observed key and no
// row is produced for an unobserved combination of keys.
func Aggregate(rows []Record, groupBy []Column, metrics []Metric) ([]AggregateRow, error) {
	if err := checkGroupBy(groupBy); err != nil {
		return nil, err
	}
	if err := checkMetrics(metrics); err != nil {
		return nil, err
	}

	groups := groupRows(rows, groupBy)
	out := make([]AggregateRow, len(groups))
	for i, g := range groups {
		vals := make(map[string]Float, len(metrics))
		for _, m := range metrics {
			vals[m.Name] = summarize(g.rows, m)
		}
		out[i] = AggregateRow{Key: g.key, Values: vals}
	}
	return out, nil
}

// Shares computes, for each value of group, the percentage of the
// group's rows that have each value in levels of sub.
//
// The denominator is the total number of rows in the group,
// including rows whose sub value is missing. Levels not observed in
// a group are explicitly 0. If levels is nil, it defaults to the
// observed values of sub, sorted.
//
// Each result row is keyed by the group value and has one value per
// level, named by the level.
func Shares(rows []Record, group, sub Column, levels []string) ([]AggregateRow, error) {
	if err := checkGroupBy([]Column{group, sub}); err != nil {
		return nil, err
	}
	if levels == nil {
		levels = Levels(rows, sub)
	}

	groups := groupRows(rows, []Column{group})
	out := make([]AggregateRow, len(groups))
	for i, g := range groups {
		counts := make(map[string]int)
		for j := range g.rows {
			if k, ok := sub.Key(&g.rows[j]); ok {
				counts[k]++
			}
		}
		vals := make(map[string]Float, len(levels))
		total := float64(len(g.rows))
		for _, level := range levels {
			vals[level] = Some(float64(counts[level]) / total * 100)
		}
		out[i] = AggregateRow{Key: g.key, Values: vals}
	}
	return out, nil
}

// Levels returns the distinct non-missing values of col in rows in
// sorted order. Numeric levels sort numerically.
func Levels(rows []Record, col Column) []string {
	levels := distinct(rows, col)
	sortLevels(levels)
	return levels
}

// Median returns the median of the non-missing values of col in
// rows, or Null if there are none.
func Median(rows []Record, col Column) Float {
	xs := values(rows, col)
	if len(xs) == 0 {
		return Null
	}
	return Some(stats.Sample{Xs: xs}.Quantile(0.5))
}

// Max returns the largest non-missing value of metric names across
// rows, or Null if there is none.
func Max(rows []AggregateRow, names ...string) Float {
	max := Null
	for _, r := range rows {
		for _, name := range names {
			v := r.Values[name]
			if v.Valid && (!max.Valid || v.V > max.V) {
				max = v
			}
		}
	}
	return max
}

type group struct {
	key  []string
	rows []Record
}

// groupRows partitions rows by their values of cols, in order of
// first occurrence.
func groupRows(rows []Record, cols []Column) []*group {
	var groups []*group
	index := make(map[string]*group)
	key := make([]string, len(cols))
rows:
	for i := range rows {
		for j, c := range cols {
			k, ok := c.Key(&rows[i])
			if !ok {
				continue rows
			}
			key[j] = k
		}
		id := strings.Join(key, "\x00")
		g := index[id]
		if g == nil {
			g = &group{key: append([]string(nil), key...)}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, rows[i])
	}
	return groups
}

func summarize(rows []Record, m Metric) Float {
	switch m.Op {
	case Count:
		return Some(float64(len(rows)))
	case Mean:
		xs := values(rows, m.Column)
		if len(xs) == 0 {
			return Null
		}
		return Some(stats.Mean(xs))
	}
	panic("unknown op " + m.Op.String())
}

func values(rows []Record, col Column) []float64 {
	var xs []float64
	for i := range rows {
		if v := col.Value(&rows[i]); v.Valid {
			xs = append(xs, v.V)
		}
	}
	return xs
}

func checkGroupBy(cols []Column) error {
	if len(cols) == 0 || len(cols) > 2 {
		return fmt.Errorf("group by %d columns; want 1 or 2", len(cols))
	}
	for _, c := range cols {
		if !c.Known() {
			return fmt.Errorf("group by unknown column %q", c)
		}
	}
	return nil
}

func checkMetrics(metrics []Metric) error {
	seen := make(map[string]bool)
	for _, m := range metrics {
		if m.Name == "" {
			return fmt.Errorf("metric on %q has no name", m.Column)
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate metric %q", m.Name)
		}
		seen[m.Name] = true
		switch m.Op {
		case Count:
		case Mean:
			if !m.Column.IsNumeric() {
				return fmt.Errorf("metric %q: mean of non-numeric column %q", m.Name, m.Column)
			}
		default:
			return fmt.Errorf("metric %q: unknown op %v", m.Name, m.Op)
		}
	}
	return nil
}

// sortLevels sorts category levels, numerically if they are all
// numbers.
func sortLevels(levels []string) {
	sort.SliceStable(levels, func(i, j int) bool {
		a, aerr := parseFloat(levels[i])
		b, berr := parseFloat(levels[j])
		if aerr == nil && berr == nil && a.Valid && b.Valid {
			return a.V < b.V
		}
		return levels[i] < levels[j]
	})
}
