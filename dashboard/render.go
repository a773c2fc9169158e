// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dashboard

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// WriteSVG renders c as an SVG image of the given size. Charts with
// no data render as a placeholder carrying c.Message.
func WriteSVG(w io.Writer, c *Chart, width, height int) error {
	if c.Empty() {
		return writeMessage(w, c, width, height)
	}
	switch c.Style {
	case StyleBar, StyleGrouped:
		return writeBars(w, c, width, height)
	case StyleStacked:
		return writeStacked(w, c, width, height)
	case StyleRadar:
		return writeRadar(w, c, width, height)
	case StyleScatter:
		return writeScatter(w, c, width, height)
	case StyleBubble:
		return writeBubble(w, c, width, height)
	case StyleFacets:
		return writeFacets(w, c, width, height)
	}
	return fmt.Errorf("cannot render chart style %q", c.Style)
}

// plotted returns the metrics of c to draw.
func plotted(c *Chart) []string {
	if len(c.Plot) > 0 {
		return c.Plot
	}
	return c.Metrics
}

// colorOf returns the color assigned to key k, or the first color
// of the qualitative cycle.
func colorOf(c *Chart, k string) color.RGBA {
	if hex, ok := c.Colors[k]; ok {
		if rgba, err := parseHex(hex); err == nil {
			return rgba
		}
	}
	rgba, _ := parseHex(qualitative[0])
	return rgba
}

// guideColor draws reference lines. Every color in a go-gg scale
// must share one concrete type, and the points use color.RGBA.
var guideColor = color.RGBA{160, 160, 160, 0xff}

func drawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// gapStyle marks a bar whose value is missing. The bar keeps its
// slot and label but draws nothing.
var gapStyle = chart.Style{
	FillColor:   drawing.Color{R: 0xff, G: 0xff, B: 0xff, A: 0},
	StrokeColor: drawing.Color{R: 0xff, G: 0xff, B: 0xff, A: 0},
	StrokeWidth: 1,
}

// barValues returns one bar per group and plotted metric, and the
// range of the drawn values, which always includes 0. Bars of the
// same group are adjacent and labeled once. Missing values become
// gaps.
func barValues(c *Chart) (bars []chart.Value, lo, hi float64) {
	metrics := plotted(c)
	for _, r := range c.Rows {
		for i, m := range metrics {
			label := ""
			if i == 0 {
				label = r.Key[0]
			}
			v := r.Value(m)
			if !v.Valid {
				bars = append(bars, chart.Value{Label: label, Style: gapStyle})
				continue
			}
			lo, hi = math.Min(lo, v.V), math.Max(hi, v.V)

			// Color by group if the chart colors groups,
			// otherwise by metric.
			key := m
			if _, ok := c.Colors[r.Key[0]]; ok {
				key = r.Key[0]
			}
			fill := drawingColor(colorOf(c, key))
			bars = append(bars, chart.Value{
				Label: label,
				Value: v.V,
				Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
			})
		}
		if len(metrics) > 1 {
			// Spacer between groups.
			bars = append(bars, chart.Value{Style: gapStyle})
		}
	}
	return bars, lo, hi
}

// writeBars draws c as a bar chart.
func writeBars(w io.Writer, c *Chart, width, height int) error {
	bars, lo, hi := barValues(c)
	if hi <= lo {
		hi = lo + 1
	}

	barWidth := (width - 120) * 3 / (4 * len(bars))
	if barWidth < 1 {
		barWidth = 1
	}
	spacing := barWidth / 3
	if spacing < 1 {
		spacing = 1
	}
	bc := chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Name: c.YLabel, Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.05}},
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}

// scatterTable returns a go-gg table of c's points with columns x,
// y, size, and fill. Points missing x or y are omitted.
func scatterTable(c *Chart) *table.Table {
	var xs, ys, sizes []float64
	var fills []color.RGBA
	for _, p := range c.Points {
		if !p.X.Valid || !p.Y.Valid {
			continue
		}
		xs = append(xs, p.X.V)
		ys = append(ys, p.Y.V)
		sizes = append(sizes, p.Size.Or(1))
		fills = append(fills, colorOf(c, p.Color))
	}
	return new(table.Builder).Add("x", xs).Add("y", ys).Add("size", sizes).Add("fill", fills).Done()
}

func labelPlot(p *gg.Plot, c *Chart) {
	p.Add(gg.Title(c.Title))
	if c.XLabel != "" {
		p.Add(gg.AxisLabel("x", c.XLabel))
	}
	if c.YLabel != "" {
		p.Add(gg.AxisLabel("y", c.YLabel))
	}
}

func writeScatter(w io.Writer, c *Chart, width, height int) error {
	tab := scatterTable(c)
	if tab.Len() == 0 {
		return writeMessage(w, c, width, height)
	}

	plot := gg.NewPlot(tab)
	labelPlot(plot, c)
	size := ""
	if c.Size != "" {
		size = "size"
	}
	plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: "fill", Size: size})

	if len(c.Guides) > 0 {
		// Span the guides across the observed x range.
		xs := tab.MustColumn("x").([]float64)
		x0, x1 := xs[0], xs[0]
		for _, x := range xs {
			x0, x1 = math.Min(x0, x), math.Max(x1, x)
		}
		var gx, gy []float64
		var glabel []string
		for _, g := range c.Guides {
			gx = append(gx, x0, x1)
			gy = append(gy, g.Y, g.Y)
			glabel = append(glabel, g.Label, g.Label)
		}
		guides := new(table.Builder).Add("x", gx).Add("y", gy).Add("label", glabel).Done()

		plot.Save()
		plot.SetData(guides)
		plot.GroupBy("label")
		plot.Add(gg.LayerLines{X: "x", Y: "y", Color: plot.Const(guideColor)})
		plot.Add(gg.LayerTags{X: "x", Y: "y", Label: "label"})
		plot.Restore()
	}
	return plot.WriteSVG(w, width, height)
}

func writeBubble(w io.Writer, c *Chart, width, height int) error {
	var names []string
	var xs, ys, sizes []float64
	var fills []color.RGBA
	for _, r := range c.Rows {
		x, y := r.Value(c.X), r.Value(c.Y)
		if !x.Valid || !y.Valid {
			continue
		}
		names = append(names, r.Key[0])
		xs = append(xs, x.V)
		ys = append(ys, y.V)
		sizes = append(sizes, r.Value(c.Size).Or(0))
		fills = append(fills, colorOf(c, r.Key[0]))
	}
	if len(xs) == 0 {
		return writeMessage(w, c, width, height)
	}
	tab := new(table.Builder).Add("name", names).Add("x", xs).Add("y", ys).Add("size", sizes).Add("fill", fills).Done()

	plot := gg.NewPlot(tab)
	labelPlot(plot, c)
	plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: "fill", Size: "size"})
	plot.Add(gg.LayerTags{X: "x", Y: "y", Label: "name"})
	return plot.WriteSVG(w, width, height)
}

// writeFacets draws one facet per plotted metric with a point per
// group.
func writeFacets(w io.Writer, c *Chart, width, height int) error {
	if len(c.Dims) == 0 {
		return fmt.Errorf("chart %q: facets need a grouping dimension", c.ID)
	}
	show := make(map[string]bool)
	for _, m := range plotted(c) {
		show[m] = true
	}
	var g table.Grouping = nutrition.TidyTable(c.Tidy, c.Dims[:1])
	g = table.Filter(g, func(m string) bool { return show[m] }, "metric")
	g = removeNaNs(g, "value")
	if groupingLen(g) == 0 {
		return writeMessage(w, c, width, height)
	}
	g = table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		metrics := t.MustColumn("metric").([]string)
		fills := make([]color.RGBA, len(metrics))
		for i, m := range metrics {
			fills[i] = colorOf(c, m)
		}
		return table.NewBuilder(t).Add("fill", fills).Done()
	})

	plot := gg.NewPlot(g)
	labelPlot(plot, c)
	plot.SetScale("y", gg.NewLinearScaler().Include(0))
	plot.Add(gg.FacetX{Col: "metric", SplitYScales: true})
	plot.Add(gg.LayerPoints{X: c.Dims[0], Y: "value", Color: "fill"})
	return plot.WriteSVG(w, width, height)
}

func removeNaNs(g table.Grouping, col string) table.Grouping {
	return table.Filter(g, func(v float64) bool {
		return !math.IsNaN(v)
	}, col)
}

func groupingLen(g table.Grouping) int {
	n := 0
	for _, gid := range g.Tables() {
		n += g.Table(gid).Len()
	}
	return n
}
