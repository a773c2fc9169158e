// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func rec(country, grade string, nova float64, sugars Float) Record {
	r := Record{CountryCode: country, Grade: grade, Sugars: sugars}
	if nova != 0 {
		r.Nova = Some(nova)
	}
	return r
}

func mustDataset(t *testing.T, rs ...Record) *Dataset {
	t.Helper()
	d, err := NewDataset("test", rs)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func TestEndToEnd(t *testing.T) {
	d := mustDataset(t,
		rec("us", "A", 1, Some(2)),
		rec("us", "B", 2, Some(4)),
		rec("fr", "A", 1, Null),
	)
	sel := Selection{Countries: []string{"us", "fr"}, Grades: []string{"A", "B"}, Nova: Range{1, 2}}
	sub, err := d.Filter(sel)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.Records(), sub); diff != "" {
		t.Fatalf("filtered subset differs (-want +got):\n%s", diff)
	}

	got, err := Aggregate(sub, []Column{ColCountryCode}, []Metric{{"avgSugar", ColSugars, Mean}})
	if err != nil {
		t.Fatal(err)
	}
	want := []AggregateRow{
		{Key: []string{"us"}, Values: map[string]Float{"avgSugar": Some(3)}},
		{Key: []string{"fr"}, Values: map[string]Float{"avgSugar": Null}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aggregate differs (-want +got):\n%s", diff)
	}
}

var filterRows = []Record{
	rec("us", "A", 1, Some(1)),
	rec("fr", "C", 4, Some(10)),
	rec("de", "", 3, Null),
	rec("us", "E", 0, Some(3)),
	rec("it", "B", 2, Some(5)),
	rec("fr", "A", 2, Null),
	rec("de", "D", 1, Some(7)),
}

var filterSelections = []Selection{
	{Countries: []string{"us", "fr", "de", "it"}, Grades: []string{"A", "B", "C", "D", "E"}, Nova: FullRange},
	{Countries: []string{"us", "fr"}, Grades: []string{"A"}, Nova: Range{1, 2}},
	{Countries: []string{"de"}, Grades: []string{"D"}, Nova: Range{1, 1}},
	Selection{Countries: []string{"us", "de"}, Nova: Range{1, 4}}.Without(FacetGrade),
	Selection{Grades: []string{"A", "E"}, Nova: Range{2, 3}}.Only(FacetGrade),
	{Countries: []string{"fr"}, Grades: []string{"A", "C"}, Nova: Range{3, 4}},
}

func TestFilterIdempotent(t *testing.T) {
	for _, sel := range filterSelections {
		once, err := Filter(filterRows, sel)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Filter(once, sel)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(once, twice, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%+v: filtering twice differs (-once +twice):\n%s", sel, diff)
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	for _, sel := range filterSelections {
		got, err := Filter(filterRows, sel)
		if err != nil {
			t.Fatal(err)
		}
		var want []Record
		for i := range filterRows {
			r := &filterRows[i]
			if sel.Active(FacetCountry) && !contains(sel.Countries, r.CountryCode) {
				continue
			}
			if sel.Active(FacetGrade) && !contains(sel.Grades, r.Grade) {
				continue
			}
			if sel.Active(FacetNova) && (!r.Nova.Valid || r.Nova.V < float64(sel.Nova.Low) || r.Nova.V > float64(sel.Nova.High)) {
				continue
			}
			want = append(want, *r)
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%+v: (-want +got):\n%s", sel, diff)
		}
		for i := range got {
			if !sel.Match(&got[i]) {
				t.Errorf("%+v: result row %+v does not match", sel, got[i])
			}
		}
	}
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}

func TestFilterEmptySelection(t *testing.T) {
	sel := Selection{Grades: []string{"A", "B", "C", "D", "E"}, Nova: FullRange}
	got, err := Filter(filterRows, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("empty country set matched %d rows; want 0", len(got))
	}

	// Ignoring the facet is how callers mean "all".
	got, err = Filter(filterRows, sel.Without(FacetCountry))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d rows; want 5", len(got))
	}
}

func TestFilterDoesNotModify(t *testing.T) {
	rows := append([]Record(nil), filterRows...)
	got, err := Filter(rows, filterSelections[0])
	if err != nil {
		t.Fatal(err)
	}
	got[0].CountryCode = "xx"
	if diff := cmp.Diff(filterRows, rows); diff != "" {
		t.Fatalf("input modified:\n%s", diff)
	}
}

func TestInvalidSelection(t *testing.T) {
	for _, r := range []Range{{3, 2}, {0, 4}, {1, 5}, {5, 5}} {
		_, err := Filter(filterRows, Selection{Nova: r})
		var serr *InvalidSelectionError
		if !errors.As(err, &serr) {
			t.Errorf("range %v: got %v; want InvalidSelectionError", r, err)
		} else if serr.Nova != r {
			t.Errorf("range %v: error reports %v", r, serr.Nova)
		}
	}
	for _, r := range []Range{{1, 1}, {1, 4}, {4, 4}} {
		if err := (Selection{Nova: r}).Validate(); err != nil {
			t.Errorf("range %v: unexpected error %v", r, err)
		}
	}
}

func TestAggregateNullMean(t *testing.T) {
	rows := []Record{rec("fr", "A", 1, Null), rec("fr", "B", 1, Null), rec("fr", "C", 2, Null)}
	got, err := Aggregate(rows, []Column{ColCountryCode}, []Metric{
		{"sugar", ColSugars, Mean},
		{"n", "", Count},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []AggregateRow{{Key: []string{"fr"}, Values: map[string]Float{"sugar": Null, "n": Some(3)}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAggregateTwoDims(t *testing.T) {
	got, err := Aggregate(filterRows, []Column{ColCountryCode, ColGrade}, []Metric{{"count", "", Count}})
	if err != nil {
		t.Fatal(err)
	}
	// The ungraded "de" row belongs to no group.
	want := []AggregateRow{
		{Key: []string{"us", "A"}, Values: map[string]Float{"count": Some(1)}},
		{Key: []string{"fr", "C"}, Values: map[string]Float{"count": Some(1)}},
		{Key: []string{"us", "E"}, Values: map[string]Float{"count": Some(1)}},
		{Key: []string{"it", "B"}, Values: map[string]Float{"count": Some(1)}},
		{Key: []string{"fr", "A"}, Values: map[string]Float{"count": Some(1)}},
		{Key: []string{"de", "D"}, Values: map[string]Float{"count": Some(1)}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAggregateErrors(t *testing.T) {
	for _, test := range []struct {
		name    string
		groupBy []Column
		metrics []Metric
	}{
		{"no dims", nil, nil},
		{"three dims", []Column{ColCountryCode, ColGrade, ColNova}, nil},
		{"unknown dim", []Column{"bogus"}, nil},
		{"unnamed", []Column{ColGrade}, []Metric{{"", ColFat, Mean}}},
		{"duplicate", []Column{ColGrade}, []Metric{{"x", ColFat, Mean}, {"x", ColSalt, Mean}}},
		{"mean of text", []Column{ColGrade}, []Metric{{"x", ColBrands, Mean}}},
	} {
		if _, err := Aggregate(filterRows, test.groupBy, test.metrics); err == nil {
			t.Errorf("%s: want error", test.name)
		}
	}
}

func TestSharesZeroFill(t *testing.T) {
	rows := []Record{rec("de", "A", 1, Null), rec("de", "B", 1, Null), rec("de", "C", 3, Null)}
	got, err := Shares(rows, ColCountryCode, ColNova, []string{"1", "2", "3", "4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows; want 1", len(got))
	}
	want := map[string]float64{"1": 66.67, "2": 0, "3": 33.33, "4": 0}
	for level, w := range want {
		v := got[0].Values[level]
		if !v.Valid {
			t.Errorf("level %s is null; want %v", level, w)
		} else if round2(v.V) != w {
			t.Errorf("level %s = %v; want %v", level, round2(v.V), w)
		}
	}
}

func TestSharesDefaultLevels(t *testing.T) {
	rows := []Record{rec("us", "A", 4, Null), rec("fr", "A", 2, Null), rec("us", "A", 0, Null)}
	got, err := Shares(rows, ColCountryCode, ColNova, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The us row with no NOVA group still counts toward the total.
	want := []AggregateRow{
		{Key: []string{"us"}, Values: map[string]Float{"2": Some(0), "4": Some(50)}},
		{Key: []string{"fr"}, Values: map[string]Float{"2": Some(100), "4": Some(0)}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestReshape(t *testing.T) {
	rows := []AggregateRow{
		{Key: []string{"us"}, Values: map[string]Float{"Fat": Some(1), "Sugar": Some(2)}},
		{Key: []string{"fr"}, Values: map[string]Float{"Fat": Some(3)}},
	}
	got := Reshape(rows, []string{"Fat", "Sugar"})
	want := []TidyRow{
		{[]string{"us"}, "Fat", Some(1)},
		{[]string{"us"}, "Sugar", Some(2)},
		{[]string{"fr"}, "Fat", Some(3)},
		{[]string{"fr"}, "Sugar", Null},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, Reshape(rows, []string{"Fat", "Sugar"})); diff != "" {
		t.Fatalf("reshape is not deterministic:\n%s", diff)
	}
	got[0].Key[0] = "XX"
	if rows[0].Key[0] != "us" {
		t.Errorf("editing a tidy key changed the aggregate key to %q", rows[0].Key[0])
	}
}

func TestSortByLevels(t *testing.T) {
	rows := []AggregateRow{
		{Key: []string{"us", "C"}},
		{Key: []string{"us", "X"}},
		{Key: []string{"us", "A"}},
		{Key: []string{"fr", "C"}},
	}
	got := SortByLevels(rows, 1, []string{"A", "B", "C", "D", "E"})
	var keys [][]string
	for _, r := range got {
		keys = append(keys, r.Key)
	}
	want := [][]string{{"us", "A"}, {"us", "C"}, {"fr", "C"}, {"us", "X"}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if rows[0].Key[1] != "C" {
		t.Fatalf("input was reordered")
	}
}

func TestSortByMetric(t *testing.T) {
	rows := []AggregateRow{
		{Key: []string{"a"}, Values: map[string]Float{"x": Some(1)}},
		{Key: []string{"b"}, Values: map[string]Float{"x": Null}},
		{Key: []string{"c"}, Values: map[string]Float{"x": Some(3)}},
		{Key: []string{"d"}, Values: map[string]Float{"x": Some(2)}},
	}
	for _, test := range []struct {
		desc bool
		want string
	}{
		{false, "adcb"},
		{true, "cdab"},
	} {
		var got string
		for _, r := range SortByMetric(rows, "x", test.desc) {
			got += r.Key[0]
		}
		if got != test.want {
			t.Errorf("desc=%v: got %s; want %s", test.desc, got, test.want)
		}
	}
}

func TestMedian(t *testing.T) {
	rows := []Record{
		{Ingredients: Some(1)},
		{Ingredients: Null},
		{Ingredients: Some(9)},
		{Ingredients: Some(5)},
	}
	if got := Median(rows, ColIngredients); !got.Valid || math.Abs(got.V-5) > 1e-9 {
		t.Errorf("Median = %v; want 5", got)
	}
	even := append(rows, Record{Ingredients: Some(3)})
	if got := Median(even, ColIngredients); !got.Valid || math.Abs(got.V-4) > 1e-9 {
		t.Errorf("Median of even count = %v; want 4", got)
	}
	if got := Median(rows[1:2], ColIngredients); got.Valid {
		t.Errorf("Median of nulls = %v; want null", got)
	}
}

func TestMax(t *testing.T) {
	rows := []AggregateRow{
		{Values: map[string]Float{"a": Some(1), "b": Null}},
		{Values: map[string]Float{"a": Some(-2), "b": Some(7)}},
	}
	if got := Max(rows, "a", "b"); got != Some(7) {
		t.Errorf("Max = %v; want 7", got)
	}
	if got := Max(rows[:1], "b"); got.Valid {
		t.Errorf("Max of nulls = %v; want null", got)
	}
}

func TestCountryDerivation(t *testing.T) {
	d := mustDataset(t, Record{CountryCode: " FR "}, Record{CountryCode: "zz"})
	fr, zz := d.At(0), d.At(1)
	if fr.CountryCode != "fr" || fr.CountryName != "France" || fr.GDPPerCapita != Some(38000) {
		t.Errorf("fr derived as %+v", fr)
	}
	if zz.CountryName != "ZZ" || zz.GDPPerCapita.Valid {
		t.Errorf("zz derived as %+v", zz)
	}
}

func TestNewDatasetErrors(t *testing.T) {
	var lerr *DataLoadError
	if _, err := NewDataset("x", nil); !errors.As(err, &lerr) {
		t.Errorf("empty dataset: got %v", err)
	}
	if _, err := NewDataset("x", []Record{{CountryCode: "us"}, {}}); !errors.As(err, &lerr) || lerr.Row != 2 {
		t.Errorf("missing country: got %v", err)
	}
}

func TestDatasetDomains(t *testing.T) {
	d := mustDataset(t, filterRows...)
	if diff := cmp.Diff([]string{"us", "fr", "de", "it"}, d.Countries()); diff != "" {
		t.Errorf("Countries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D", "E"}, d.Grades()); diff != "" {
		t.Errorf("Grades (-want +got):\n%s", diff)
	}
}
