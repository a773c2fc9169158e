// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"fmt"
	"strings"
)

// NOVA groups range over [NovaMin, NovaMax].
const (
	NovaMin = 1
	NovaMax = 4
)

// A Facet is a user-selectable filter dimension.
type Facet uint8

const (
	FacetCountry Facet = 1 << iota
	FacetGrade
	FacetNova

	AllFacets = FacetCountry | FacetGrade | FacetNova
)

var facetNames = []struct {
	f    Facet
	name string
}{
	{FacetCountry, "country"},
	{FacetGrade, "grade"},
	{FacetNova, "nova"},
}

// ParseFacets parses a list of facet names ("country", "grade",
// "nova") into a Facet set.
func ParseFacets(names []string) (Facet, error) {
	var fs Facet
names:
	for _, name := range names {
		for _, fn := range facetNames {
			if strings.EqualFold(name, fn.name) {
				fs |= fn.f
				continue names
			}
		}
		return 0, fmt.Errorf("unknown facet %q", name)
	}
	return fs, nil
}

func (f Facet) String() string {
	var names []string
	for _, fn := range facetNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "+")
}

// Range is a closed range of NOVA groups.
type Range struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// FullRange covers every NOVA group.
var FullRange = Range{NovaMin, NovaMax}

// Contains reports whether x lies in [r.Low, r.High].
func (r Range) Contains(x float64) bool {
	return float64(r.Low) <= x && x <= float64(r.High)
}

// Selection is the filter state chosen by the user.
//
// An empty Countries or Grades set matches nothing. To select every
// country, list every country.
type Selection struct {
	Countries []string `json:"countries" yaml:"countries"`
	Grades    []string `json:"grades" yaml:"grades"`
	Nova      Range    `json:"nova" yaml:"nova"`

	// Ignore is the set of facets whose predicates are disabled.
	// The zero value applies all three.
	Ignore Facet `json:"-" yaml:"-"`
}

// Without returns a copy of s that does not filter on facets fs.
func (s Selection) Without(fs Facet) Selection {
	s.Ignore |= fs
	return s
}

// Only returns a copy of s that filters on facets fs and nothing
// else.
func (s Selection) Only(fs Facet) Selection {
	s.Ignore = AllFacets &^ fs
	return s
}

// Active reports whether s filters on facet f.
func (s Selection) Active(f Facet) bool {
	return s.Ignore&f == 0
}

// Validate checks that s.Nova is a valid range within
// [NovaMin, NovaMax]. The range is checked even when the NOVA facet
// is ignored, since an invalid range indicates a bug in the caller.
func (s Selection) Validate() error {
	r := s.Nova
	if r.Low > r.High {
		return &InvalidSelectionError{r, "low > high"}
	}
	if r.Low < NovaMin || r.High > NovaMax {
		return &InvalidSelectionError{r, fmt.Sprintf("outside [%d, %d]", NovaMin, NovaMax)}
	}
	return nil
}

// Match reports whether r satisfies every active predicate of s.
// A missing value never matches an active predicate.
func (s Selection) Match(r *Record) bool {
	return s.match(r, newSet(s.Countries), newSet(s.Grades))
}

func (s Selection) match(r *Record, countries, grades map[string]bool) bool {
	if s.Active(FacetCountry) && (r.CountryCode == "" || !countries[r.CountryCode]) {
		return false
	}
	if s.Active(FacetGrade) && (r.Grade == "" || !grades[r.Grade]) {
		return false
	}
	if s.Active(FacetNova) && (!r.Nova.Valid || !s.Nova.Contains(r.Nova.V)) {
		return false
	}
	return true
}

// Filter returns the rows that satisfy every active predicate of
// sel, in their original order. It does not modify rows. Filtering
// the result again with the same sel yields the same rows.
func Filter(rows []Record, sel Selection) ([]Record, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	countries, grades := newSet(sel.Countries), newSet(sel.Grades)
	out := []Record{}
	for i := range rows {
		if sel.match(&rows[i], countries, grades) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// Require returns the rows in which every column in cols is present.
func Require(rows []Record, cols ...Column) []Record {
	out := []Record{}
rows:
	for i := range rows {
		for _, c := range cols {
			if _, ok := c.Key(&rows[i]); !ok {
				continue rows
			}
		}
		out = append(out, rows[i])
	}
	return out
}

func newSet(xs []string) map[string]bool {
	set := make(map[string]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}
