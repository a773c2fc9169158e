// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTidyTable(t *testing.T) {
	rows := Reshape([]AggregateRow{
		{Key: []string{"us"}, Values: map[string]Float{"Fat": Some(1), "Salt": Null}},
	}, []string{"Fat", "Salt"})
	tab := TidyTable(rows, []string{"country"})

	if diff := cmp.Diff([]string{"country", "metric", "value"}, tab.Columns()); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fat", "Salt"}, tab.MustColumn("metric")); diff != "" {
		t.Errorf("metric (-want +got):\n%s", diff)
	}
	vals := tab.MustColumn("value").([]float64)
	if vals[0] != 1 || !math.IsNaN(vals[1]) {
		t.Errorf("values = %v; want [1 NaN]", vals)
	}
}

func TestAggregateTable(t *testing.T) {
	rows := []AggregateRow{
		{Key: []string{"us", "A"}, Values: map[string]Float{"count": Some(2)}},
		{Key: []string{"fr", "B"}, Values: map[string]Float{"count": Some(1)}},
	}
	tab := AggregateTable(rows, []string{"country", "grade"}, []string{"count"})
	if tab.Len() != 2 {
		t.Fatalf("Len = %d; want 2", tab.Len())
	}
	if diff := cmp.Diff([]string{"A", "B"}, tab.MustColumn("grade")); diff != "" {
		t.Errorf("grade (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 1}, tab.MustColumn("count")); diff != "" {
		t.Errorf("count (-want +got):\n%s", diff)
	}
}

func TestRecordTable(t *testing.T) {
	tab := RecordTable([]Record{{CountryCode: "us", Fat: Some(2)}})
	if got := tab.MustColumn(string(ColCountryCode)).([]string); got[0] != "us" {
		t.Errorf("country_code = %v", got)
	}
	if got := tab.MustColumn(string(ColSugars)).([]float64); !math.IsNaN(got[0]) {
		t.Errorf("sugars = %v; want NaN", got)
	}
}
