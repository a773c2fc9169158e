// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"github.com/aclements/go-gg/table"
)

// RecordTable returns a go-gg table with one row per record and one
// column per known column. Missing numbers are NaN and missing
// strings are "".
func RecordTable(rows []Record) *table.Table {
	tab := new(table.Builder)
	for _, col := range []Column{ColCode, ColProductName, ColBrands, ColCountryCode, ColCountryName, ColContinent, ColGrade} {
		seq := make([]string, len(rows))
		for i := range rows {
			seq[i], _ = col.Key(&rows[i])
		}
		tab.Add(string(col), seq)
	}
	for _, col := range []Column{ColNova, ColFat, ColSugars, ColProteins, ColCarbohydrates, ColSalt, ColAdditives, ColIngredients, ColNutritionScore, ColGDPPerCapita} {
		seq := make([]float64, len(rows))
		for i := range rows {
			seq[i] = col.Value(&rows[i]).NaN()
		}
		tab.Add(string(col), seq)
	}
	return tab.Done()
}

// AggregateTable returns a go-gg table with one row per aggregate
// row. The key columns are named by dims and the metric columns by
// metrics.
func AggregateTable(rows []AggregateRow, dims []string, metrics []string) *table.Table {
	tab := new(table.Builder)
	addKeys(tab, dims, len(rows), func(i int) []string { return rows[i].Key })
	for _, m := range metrics {
		seq := make([]float64, len(rows))
		for i, r := range rows {
			seq[i] = r.Values[m].NaN()
		}
		tab.Add(m, seq)
	}
	return tab.Done()
}

// TidyTable returns a go-gg table with key columns named by dims,
// followed by "metric" and "value" columns.
func TidyTable(rows []TidyRow, dims []string) *table.Table {
	tab := new(table.Builder)
	addKeys(tab, dims, len(rows), func(i int) []string { return rows[i].Key })
	metric := make([]string, len(rows))
	value := make([]float64, len(rows))
	for i, r := range rows {
		metric[i], value[i] = r.Metric, r.Value.NaN()
	}
	return tab.Add("metric", metric).Add("value", value).Done()
}

func addKeys(tab *table.Builder, dims []string, n int, key func(i int) []string) {
	for d, dim := range dims {
		seq := make([]string, n)
		for i := range seq {
			if k := key(i); d < len(k) {
				seq[i] = k[d]
			}
		}
		tab.Add(dim, seq)
	}
}
