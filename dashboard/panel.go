// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dashboard

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aclements/go-foodfacts/nutrition"
)

// Kind is the statistic a panel computes.
type Kind string

const (
	// KindCount counts records per group.
	KindCount Kind = "count"
	// KindMean computes one or more means per group.
	KindMean Kind = "mean"
	// KindShare computes the percentage of each group's records
	// in each level of a second dimension.
	KindShare Kind = "share"
	// KindPoints plots individual records.
	KindPoints Kind = "points"
)

// Style is the visual form of a chart.
type Style string

const (
	StyleBar     Style = "bar"
	StyleStacked Style = "stacked"
	StyleGrouped Style = "grouped"
	StyleRadar   Style = "radar"
	StyleScatter Style = "scatter"
	StyleBubble  Style = "bubble"
	StyleFacets  Style = "facets"
)

// PanelSpec describes one chart of the dashboard. Panel specs can be
// written in YAML; see DefaultPanels for the built-in set.
type PanelSpec struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Kind  Kind   `yaml:"kind" json:"kind"`
	Style Style  `yaml:"style" json:"style"`

	// Facets lists the facets ("country", "grade", "nova") this
	// panel filters on. If empty, the panel filters on all facets.
	Facets []string `yaml:"facets,omitempty" json:"facets,omitempty"`

	// Require lists columns that must be present in a record for
	// it to be included.
	Require []string `yaml:"require,omitempty" json:"require,omitempty"`

	// GroupBy lists the grouping columns. For KindPoints, these
	// are carried on each point as its key.
	GroupBy []string     `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	Metrics []MetricSpec `yaml:"metrics,omitempty" json:"metrics,omitempty"`

	// Levels is the category order of the second dimension, or the
	// share levels for KindShare.
	Levels []string `yaml:"levels,omitempty" json:"levels,omitempty"`

	// Labels maps category values and metric names to display
	// labels.
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`

	Sort *SortSpec `yaml:"sort,omitempty" json:"sort,omitempty"`

	// Plot restricts which metrics are drawn. All metrics are
	// still computed.
	Plot []string `yaml:"plot,omitempty" json:"plot,omitempty"`

	// X, Y, Size, and Color name the columns or metrics bound to
	// each visual channel. Empty channels take defaults from the
	// panel's kind.
	X     string `yaml:"x,omitempty" json:"x,omitempty"`
	Y     string `yaml:"y,omitempty" json:"y,omitempty"`
	Size  string `yaml:"size,omitempty" json:"size,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`

	// Palette names a color map: "grade", "nova", "nutrient",
	// "gradient", or "" for a qualitative cycle. Colors overrides
	// individual entries.
	Palette string            `yaml:"palette,omitempty" json:"palette,omitempty"`
	Colors  map[string]string `yaml:"colors,omitempty" json:"colors,omitempty"`

	XLabel string  `yaml:"x_label,omitempty" json:"x_label,omitempty"`
	YLabel string  `yaml:"y_label,omitempty" json:"y_label,omitempty"`
	Guides []Guide `yaml:"guides,omitempty" json:"guides,omitempty"`
}

// clone returns a deep copy of s.
func (s PanelSpec) clone() PanelSpec {
	s.Facets = slices.Clone(s.Facets)
	s.Require = slices.Clone(s.Require)
	s.GroupBy = slices.Clone(s.GroupBy)
	s.Metrics = slices.Clone(s.Metrics)
	s.Levels = slices.Clone(s.Levels)
	s.Labels = maps.Clone(s.Labels)
	if s.Sort != nil {
		ss := *s.Sort
		s.Sort = &ss
	}
	s.Plot = slices.Clone(s.Plot)
	s.Colors = maps.Clone(s.Colors)
	s.Guides = slices.Clone(s.Guides)
	return s
}

// MetricSpec is the configuration form of a nutrition.Metric.
type MetricSpec struct {
	Name   string `yaml:"name" json:"name"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`
	Op     string `yaml:"op" json:"op"`
}

// SortSpec orders aggregate rows by a metric.
type SortSpec struct {
	Metric string `yaml:"metric" json:"metric"`
	Desc   bool   `yaml:"desc" json:"desc"`
}

// A Guide is a labeled horizontal reference line.
type Guide struct {
	Y     float64 `yaml:"y" json:"y"`
	Label string  `yaml:"label" json:"label"`
}

// panel is a validated PanelSpec.
type panel struct {
	spec    PanelSpec
	facets  nutrition.Facet
	require []nutrition.Column
	groupBy []nutrition.Column
	metrics []nutrition.Metric
	names   []string
}

func compile(spec PanelSpec) (*panel, error) {
	p := &panel{spec: spec.clone(), facets: nutrition.AllFacets}
	bad := func(format string, args ...interface{}) error {
		return fmt.Errorf("panel %q: %s", spec.ID, fmt.Sprintf(format, args...))
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("panel %q: missing id", spec.Title)
	}

	if len(spec.Facets) > 0 {
		fs, err := nutrition.ParseFacets(spec.Facets)
		if err != nil {
			return nil, bad("%v", err)
		}
		p.facets = fs
	}

	cols := func(names []string) ([]nutrition.Column, error) {
		var out []nutrition.Column
		for _, name := range names {
			c, ok := nutrition.ParseColumn(name)
			if !ok {
				return nil, bad("unknown column %q", name)
			}
			out = append(out, c)
		}
		return out, nil
	}
	var err error
	if p.require, err = cols(spec.Require); err != nil {
		return nil, err
	}
	if p.groupBy, err = cols(spec.GroupBy); err != nil {
		return nil, err
	}

	for _, ms := range spec.Metrics {
		op, err := nutrition.ParseOp(ms.Op)
		if err != nil {
			return nil, bad("metric %q: %v", ms.Name, err)
		}
		m := nutrition.Metric{Name: ms.Name, Op: op}
		if ms.Column != "" {
			c, ok := nutrition.ParseColumn(ms.Column)
			if !ok {
				return nil, bad("metric %q: unknown column %q", ms.Name, ms.Column)
			}
			m.Column = c
		}
		p.metrics = append(p.metrics, m)
		p.names = append(p.names, ms.Name)
	}

	switch spec.Kind {
	case KindCount:
		if len(p.groupBy) < 1 || len(p.groupBy) > 2 {
			return nil, bad("count needs one or two group_by columns")
		}
		if len(p.metrics) == 0 {
			p.metrics = []nutrition.Metric{{Name: "count", Op: nutrition.Count}}
			p.names = []string{"count"}
		}
	case KindMean:
		if len(p.groupBy) < 1 || len(p.groupBy) > 2 {
			return nil, bad("mean needs one or two group_by columns")
		}
		if len(p.metrics) == 0 {
			return nil, bad("mean needs at least one metric")
		}
	case KindShare:
		if len(p.groupBy) != 2 {
			return nil, bad("share needs exactly two group_by columns")
		}
	case KindPoints:
		for _, ch := range []string{spec.X, spec.Y, spec.Size} {
			if ch == "" {
				continue
			}
			if c, ok := nutrition.ParseColumn(ch); !ok || !c.IsNumeric() {
				return nil, bad("channel %q is not a numeric column", ch)
			}
		}
		if spec.X == "" || spec.Y == "" {
			return nil, bad("points needs x and y")
		}
	default:
		return nil, bad("unknown kind %q", spec.Kind)
	}

	switch spec.Style {
	case StyleBar, StyleStacked, StyleGrouped, StyleRadar, StyleScatter, StyleBubble, StyleFacets:
	default:
		return nil, bad("unknown style %q", spec.Style)
	}
	if spec.Sort != nil && !contains(p.names, spec.Sort.Metric) {
		return nil, bad("sort by unknown metric %q", spec.Sort.Metric)
	}
	for _, name := range spec.Plot {
		if !contains(p.names, name) {
			return nil, bad("plot of unknown metric %q", name)
		}
	}
	if _, err := namedPalette(spec.Palette); err != nil {
		return nil, bad("%v", err)
	}
	return p, nil
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}

// novaLabels describes the NOVA food processing groups.
var novaLabels = map[string]string{
	"1": "Group 1: Unprocessed/minimally processed",
	"2": "Group 2: Processed culinary ingredients",
	"3": "Group 3: Processed foods",
	"4": "Group 4: Ultra-processed foods",
}

var (
	grades     = []string{"A", "B", "C", "D", "E"}
	novaLevels = []string{"1", "2", "3", "4"}
)

// DefaultPanels returns the built-in dashboard panels.
func DefaultPanels() []PanelSpec {
	mean := func(name string, col nutrition.Column) MetricSpec {
		return MetricSpec{Name: name, Column: string(col), Op: "mean"}
	}
	country := []string{string(nutrition.ColCountryName)}

	return []PanelSpec{
		{
			ID:      "grades",
			Title:   "Nutrition Grade Distribution by Country",
			Kind:    KindCount,
			Style:   StyleStacked,
			Facets:  []string{"country", "nova"},
			GroupBy: []string{string(nutrition.ColCountryName), string(nutrition.ColGrade)},
			Levels:  grades,
			Palette: "grade",
			XLabel:  "Country",
			YLabel:  "Number of Products",
		},
		{
			ID:      "macronutrients",
			Title:   "Average Macronutrient Content by Country",
			Kind:    KindMean,
			Style:   StyleGrouped,
			GroupBy: country,
			Metrics: []MetricSpec{
				mean("Fat", nutrition.ColFat),
				mean("Sugars", nutrition.ColSugars),
				mean("Proteins", nutrition.ColProteins),
				mean("Carbs", nutrition.ColCarbohydrates),
				mean("Salt", nutrition.ColSalt),
			},
			Palette: "nutrient",
			XLabel:  "Country",
			YLabel:  "Amount (g per 100g)",
		},
		{
			ID:      "profile",
			Title:   "Nutritional Profile Comparison",
			Kind:    KindMean,
			Style:   StyleRadar,
			GroupBy: country,
			Metrics: []MetricSpec{
				mean("Fat", nutrition.ColFat),
				mean("Sugars", nutrition.ColSugars),
				mean("Proteins", nutrition.ColProteins),
				mean("Carbs", nutrition.ColCarbohydrates),
				mean("Salt", nutrition.ColSalt),
				mean("Additives", nutrition.ColAdditives),
				mean("Nutrition Score", nutrition.ColNutritionScore),
			},
		},
		{
			ID:      "nova",
			Title:   "Food Processing Level Distribution (NOVA Classification)",
			Kind:    KindCount,
			Style:   StyleStacked,
			Facets:  []string{"country", "grade"},
			GroupBy: []string{string(nutrition.ColCountryName), string(nutrition.ColNova)},
			Levels:  novaLevels,
			Labels:  novaLabels,
			Palette: "nova",
			XLabel:  "Country",
			YLabel:  "Number of Products",
		},
		{
			ID:      "additives",
			Title:   "Average Number of Additives by Country",
			Kind:    KindMean,
			Style:   StyleBar,
			GroupBy: country,
			Metrics: []MetricSpec{mean("Average Number of Additives", nutrition.ColAdditives)},
			Sort:    &SortSpec{Metric: "Average Number of Additives", Desc: true},
			Palette: "gradient",
			XLabel:  "Country",
			YLabel:  "Average Number of Additives",
		},
		{
			ID:      "additives-vs-score",
			Title:   "Relationship Between Additives and Nutrition Grade",
			Kind:    KindPoints,
			Style:   StyleScatter,
			Facets:  []string{"country", "nova"},
			Require: []string{string(nutrition.ColAdditives), string(nutrition.ColNutritionScore)},
			GroupBy: []string{
				string(nutrition.ColCountryName),
				string(nutrition.ColProductName),
				string(nutrition.ColBrands),
				string(nutrition.ColGrade),
				string(nutrition.ColNova),
			},
			X:      string(nutrition.ColAdditives),
			Y:      string(nutrition.ColNutritionScore),
			Size:   string(nutrition.ColIngredients),
			Color:  string(nutrition.ColCountryName),
			XLabel: "Number of Additives",
			YLabel: "Nutrition Score (higher is better)",
			Guides: []Guide{
				{5, "Grade A"}, {4, "Grade B"}, {3, "Grade C"}, {2, "Grade D"}, {1, "Grade E"},
			},
		},
		{
			ID:      "gdp",
			Title:   "Economic Development vs Food Quality",
			Kind:    KindMean,
			Style:   StyleBubble,
			Facets:  []string{"grade", "nova"},
			Require: []string{string(nutrition.ColGDPPerCapita)},
			GroupBy: country,
			Metrics: []MetricSpec{
				mean("gdp_per_capita", nutrition.ColGDPPerCapita),
				mean("nutrition_score", nutrition.ColNutritionScore),
				mean("nova_group", nutrition.ColNova),
				mean("additives_n", nutrition.ColAdditives),
			},
			X:       "gdp_per_capita",
			Y:       "nutrition_score",
			Size:    "additives_n",
			Color:   "nova_group",
			Palette: "gradient",
			XLabel:  "GDP per Capita (USD)",
			YLabel:  "Average Nutrition Score (higher is better)",
		},
		{
			ID:      "continents",
			Title:   "Food Quality Metrics by Continent",
			Kind:    KindMean,
			Style:   StyleFacets,
			Facets:  []string{"grade", "nova"},
			GroupBy: []string{string(nutrition.ColContinent)},
			Metrics: []MetricSpec{
				mean("Nutrition Score", nutrition.ColNutritionScore),
				mean("NOVA Group", nutrition.ColNova),
				mean("Additives Count", nutrition.ColAdditives),
				mean("Sugar (g/100g)", nutrition.ColSugars),
				mean("Fat (g/100g)", nutrition.ColFat),
			},
			Plot: []string{"Nutrition Score", "NOVA Group", "Additives Count"},
			Colors: map[string]string{
				"Nutrition Score": "#008000",
				"NOVA Group":      "#FFA500",
				"Additives Count": "#FF0000",
			},
			XLabel: "Continent",
		},
		{
			ID:      "processing",
			Title:   "Food Processing Level Distribution by Country (% of Products)",
			Kind:    KindShare,
			Style:   StyleStacked,
			Facets:  []string{"country", "grade"},
			GroupBy: []string{string(nutrition.ColCountryName), string(nutrition.ColNova)},
			Levels:  novaLevels,
			Labels:  novaLabels,
			Palette: "nova",
			XLabel:  "Country",
			YLabel:  "% of Products",
		},
	}
}
