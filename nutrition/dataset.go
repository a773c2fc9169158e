// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset is an immutable, ordered collection of Records.
//
// A Dataset is safe for concurrent use once it has been returned by
// NewDataset or one of the loaders.
type Dataset struct {
	source  string
	records []Record
}

// NewDataset returns a Dataset holding a copy of records. It
// normalizes country codes to lower case, clears grades other than A
// through E and NOVA groups other than 1 through 4, and derives each
// record's CountryName and GDPPerCapita from its code. source describes where
// the records came from and appears in errors.
//
// It fails with a *DataLoadError if records is empty or any record
// has no country code.
func NewDataset(source string, records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, &DataLoadError{Source: source, Reason: "no rows"}
	}
	d := &Dataset{source: source, records: make([]Record, len(records))}
	for i, r := range records {
		r.CountryCode = strings.ToLower(strings.TrimSpace(r.CountryCode))
		if r.CountryCode == "" {
			return nil, &DataLoadError{Source: source, Row: i + 1, Column: ColCountryCode, Reason: "missing country code"}
		}
		r.Grade = parseGrade(strings.TrimSpace(r.Grade))
		r.Nova = parseNova(r.Nova)
		r.CountryName = CountryName(r.CountryCode)
		r.GDPPerCapita = GDPPerCapita(r.CountryCode)
		d.records[i] = r
	}
	return d, nil
}

// Source returns the description of where d was loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// Len returns the number of records in d.
func (d *Dataset) Len() int {
	return len(d.records)
}

// At returns a copy of the i'th record.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all of d's records.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// Filter returns the records of d that match sel. See Filter.
func (d *Dataset) Filter(sel Selection) ([]Record, error) {
	return Filter(d.records, sel)
}

// Countries returns the distinct country codes in d in order of
// first occurrence.
func (d *Dataset) Countries() []string {
	return distinct(d.records, ColCountryCode)
}

// Grades returns the distinct non-missing grades in d in sorted
// order.
func (d *Dataset) Grades() []string {
	gs := distinct(d.records, ColGrade)
	sort.Strings(gs)
	return gs
}

// Continents returns the distinct non-missing continents in d in
// sorted order.
func (d *Dataset) Continents() []string {
	cs := distinct(d.records, ColContinent)
	sort.Strings(cs)
	return cs
}

func (d *Dataset) String() string {
	return fmt.Sprintf("%s (%d records)", d.source, len(d.records))
}

func distinct(rows []Record, col Column) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range rows {
		k, ok := col.Key(&rows[i])
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
