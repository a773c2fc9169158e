// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dashboard

import (
	"slices"

	"github.com/aclements/go-foodfacts/nutrition"
)

// Chart is the computed form of one panel: derived data plus the
// visual encoding needed to draw it.
type Chart struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Style Style  `json:"style"`

	// Dims names the grouping columns of Rows and Tidy keys.
	Dims []string `json:"dims"`

	// Metrics names the computed metrics, after relabeling.
	Metrics []string `json:"metrics"`

	// Plot names the metrics to draw. It is a subset of Metrics.
	Plot []string `json:"plot,omitempty"`

	// Rows holds one row per group, in display order.
	Rows []nutrition.AggregateRow `json:"rows,omitempty"`

	// Tidy holds Rows reshaped to one row per group and metric.
	Tidy []nutrition.TidyRow `json:"tidy,omitempty"`

	// Points holds one point per record for point charts.
	Points []Point `json:"points,omitempty"`

	// Categories is the display order of the first dimension.
	Categories []string `json:"categories,omitempty"`

	// X, Y, Size, and Color name the data bound to each visual
	// channel.
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`

	// Colors maps each value of the color channel to a "#RRGGBB"
	// color. Order is the legend order of those values.
	Colors map[string]string `json:"colors,omitempty"`
	Order  []string          `json:"order,omitempty"`

	// RadialMax is the outer limit of a radar chart's radial axis.
	RadialMax nutrition.Float `json:"radial_max"`

	XLabel string  `json:"x_label,omitempty"`
	YLabel string  `json:"y_label,omitempty"`
	Guides []Guide `json:"guides,omitempty"`

	// Message is set if the chart has nothing to show.
	Message string `json:"message,omitempty"`
}

// A Point is one record of a point chart.
type Point struct {
	// Key holds the record's value of each of the chart's Dims.
	Key   []string        `json:"key"`
	X     nutrition.Float `json:"x"`
	Y     nutrition.Float `json:"y"`
	Size  nutrition.Float `json:"size"`
	Color string          `json:"color,omitempty"`
}

// Empty reports whether c has no data to draw.
func (c *Chart) Empty() bool {
	return len(c.Rows) == 0 && len(c.Points) == 0
}

// label returns the display label of key k.
func (p *panel) label(k string) string {
	if l, ok := p.spec.Labels[k]; ok {
		return l
	}
	return k
}

func (p *panel) labels(ks []string) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = p.label(k)
	}
	return out
}

// chart computes p's chart over data under sel.
func (p *panel) chart(data *nutrition.Dataset, sel nutrition.Selection) (*Chart, error) {
	rows, err := data.Filter(sel.Without(nutrition.AllFacets &^ p.facets))
	if err != nil {
		return nil, err
	}
	if len(p.require) > 0 {
		rows = nutrition.Require(rows, p.require...)
	}

	s := &p.spec
	c := &Chart{
		ID:     s.ID,
		Title:  s.Title,
		Style:  s.Style,
		Dims:   slices.Clone(s.GroupBy),
		X:      s.X,
		Y:      s.Y,
		Size:   s.Size,
		Color:  s.Color,
		XLabel: s.XLabel,
		YLabel: s.YLabel,
		Guides: slices.Clone(s.Guides),
	}
	switch s.Kind {
	case KindCount, KindMean:
		err = p.aggregate(c, rows)
	case KindShare:
		err = p.shares(c, rows)
	case KindPoints:
		p.points(c, rows)
	}
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		c.Message = EmptyMessage
	}
	return c, nil
}

func (p *panel) aggregate(c *Chart, rows []nutrition.Record) error {
	s := &p.spec
	agg, err := nutrition.Aggregate(rows, p.groupBy, p.metrics)
	if err != nil {
		return err
	}
	if s.Sort != nil {
		agg = nutrition.SortByMetric(agg, s.Sort.Metric, s.Sort.Desc)
	}
	c.Categories = categories(agg)
	if len(p.groupBy) == 2 && s.Levels != nil {
		agg = nutrition.SortByLevels(agg, 1, s.Levels)
	}
	p.finish(c, agg, p.names)

	switch {
	case len(p.groupBy) == 2:
		// Color by the second dimension.
		if c.Color == "" {
			c.Color = s.GroupBy[1]
		}
		order := p.labels(s.Levels)
		if s.Levels == nil {
			order = nil
			seen := make(map[string]bool)
			for _, r := range c.Rows {
				if k := r.Key[1]; !seen[k] {
					seen[k] = true
					order = append(order, k)
				}
			}
		}
		c.Order = order
		c.Colors = colorize(order, s.Palette, s.Labels, s.Colors)

	case s.Style == StyleRadar:
		c.Color = s.GroupBy[0]
		c.Order = c.Categories
		c.Colors = colorize(c.Order, s.Palette, s.Labels, s.Colors)
		if hi := nutrition.Max(c.Rows, c.Metrics...); hi.Valid {
			c.RadialMax = nutrition.Some(hi.V * 1.1)
		}

	case s.Palette == "gradient":
		// Color each group continuously by a metric.
		if c.Color == "" {
			c.Color = c.Metrics[0]
		}
		var keys []string
		var vals []float64
		for _, r := range c.Rows {
			if v := r.Value(c.Color); v.Valid {
				keys = append(keys, r.Key[0])
				vals = append(vals, v.V)
			}
		}
		c.Colors = gradientColors(keys, vals)

	default:
		// Color by metric.
		if c.Color == "" {
			c.Color = "metric"
		}
		c.Order = c.Metrics
		if len(c.Plot) > 0 {
			c.Order = c.Plot
		}
		c.Colors = colorize(c.Order, s.Palette, s.Labels, s.Colors)
	}
	return nil
}

func (p *panel) shares(c *Chart, rows []nutrition.Record) error {
	s := &p.spec
	levels := s.Levels
	if levels == nil {
		levels = nutrition.Levels(rows, p.groupBy[1])
	}
	agg, err := nutrition.Shares(rows, p.groupBy[0], p.groupBy[1], levels)
	if err != nil {
		return err
	}
	c.Categories = categories(agg)
	p.finish(c, agg, levels)
	if c.Color == "" {
		c.Color = "metric"
	}
	c.Order = c.Metrics
	c.Colors = colorize(c.Order, s.Palette, s.Labels, s.Colors)
	return nil
}

// finish relabels agg, stores it in c, and reshapes it to tidy form
// over metrics.
func (p *panel) finish(c *Chart, agg []nutrition.AggregateRow, metrics []string) {
	out := make([]nutrition.AggregateRow, len(agg))
	for i, r := range agg {
		vals := make(map[string]nutrition.Float, len(r.Values))
		for k, v := range r.Values {
			vals[p.label(k)] = v
		}
		out[i] = nutrition.AggregateRow{Key: p.labels(r.Key), Values: vals}
	}
	c.Rows = out
	c.Metrics = p.labels(metrics)
	c.Categories = p.labels(c.Categories)
	if len(p.spec.Plot) > 0 {
		c.Plot = p.labels(p.spec.Plot)
	}
	c.Tidy = nutrition.Reshape(out, c.Metrics)
}

func (p *panel) points(c *Chart, rows []nutrition.Record) {
	s := &p.spec
	x, _ := nutrition.ParseColumn(s.X)
	y, _ := nutrition.ParseColumn(s.Y)
	size, hasSize := nutrition.ParseColumn(s.Size)
	color, hasColor := nutrition.ParseColumn(s.Color)

	// Missing sizes take the median size, or 1 if no record has
	// a size.
	fill := nutrition.Null
	if hasSize {
		if fill = nutrition.Median(rows, size); !fill.Valid {
			fill = nutrition.Some(1)
		}
	}

	seen := make(map[string]bool)
	c.Points = make([]Point, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		pt := Point{X: x.Value(r), Y: y.Value(r)}
		for _, col := range p.groupBy {
			k, _ := col.Key(r)
			pt.Key = append(pt.Key, p.label(k))
		}
		if hasSize {
			if pt.Size = size.Value(r); !pt.Size.Valid {
				pt.Size = fill
			}
		}
		if hasColor {
			k, _ := color.Key(r)
			pt.Color = p.label(k)
			if !seen[pt.Color] {
				seen[pt.Color] = true
				c.Order = append(c.Order, pt.Color)
			}
		}
		c.Points = append(c.Points, pt)
	}
	c.Metrics = []string{}
	c.Colors = colorize(c.Order, s.Palette, s.Labels, s.Colors)
}

// categories returns the distinct first-dimension keys of rows in
// order.
func categories(rows []nutrition.AggregateRow) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if k := r.Key[0]; !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
