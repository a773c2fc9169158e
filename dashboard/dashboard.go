// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dashboard computes the charts of the food facts dashboard.
//
// A Dashboard holds an immutable nutrition.Dataset and a list of
// panels. Each request supplies a nutrition.Selection; the
// dashboard filters the dataset for each panel (honoring only that
// panel's facets), aggregates, reshapes, and returns a Chart holding
// the derived rows together with the visual encoding. Charts can be
// rendered to SVG with WriteSVG.
//
// Requests never mutate shared state, so a Dashboard may serve any
// number of concurrent requests.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/aclements/go-foodfacts/nutrition"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownPanel is returned when a chart is requested for a panel
// ID that does not exist.
var ErrUnknownPanel = errors.New("unknown panel")

// EmptyMessage is the message of a chart with no data.
const EmptyMessage = "No data available with current filters"

// Dashboard computes charts over a fixed dataset.
type Dashboard struct {
	data   *nutrition.Dataset
	panels []*panel
	byID   map[string]*panel
}

// New returns a Dashboard over data with the given panels. If no
// panels are given, it uses DefaultPanels.
func New(data *nutrition.Dataset, panels ...PanelSpec) (*Dashboard, error) {
	if data == nil {
		return nil, errors.New("nil dataset")
	}
	if len(panels) == 0 {
		panels = DefaultPanels()
	}
	d := &Dashboard{data: data, byID: make(map[string]*panel)}
	for _, spec := range panels {
		p, err := compile(spec)
		if err != nil {
			return nil, err
		}
		if d.byID[spec.ID] != nil {
			return nil, fmt.Errorf("duplicate panel %q", spec.ID)
		}
		d.panels = append(d.panels, p)
		d.byID[spec.ID] = p
	}
	return d, nil
}

// Data returns the dataset d serves.
func (d *Dashboard) Data() *nutrition.Dataset {
	return d.data
}

// Panels returns the specs of d's panels in order.
func (d *Dashboard) Panels() []PanelSpec {
	out := make([]PanelSpec, len(d.panels))
	for i, p := range d.panels {
		out[i] = p.spec.clone()
	}
	return out
}

// Chart computes the chart for panel id under sel.
func (d *Dashboard) Chart(ctx context.Context, id string, sel nutrition.Selection) (*Chart, error) {
	p := d.byID[id]
	if p == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownPanel, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.chart(d.data, sel)
}

// Render computes every panel's chart under sel. Panels are computed
// concurrently; the result is in panel order. If any panel fails,
// Render returns the first error.
func (d *Dashboard) Render(ctx context.Context, sel nutrition.Selection) ([]*Chart, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	charts := make([]*Chart, len(d.panels))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range d.panels {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := p.chart(d.data, sel)
			if err != nil {
				return err
			}
			charts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return charts, nil
}

// An Option is one choice of a facet control.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options describes the domain of each facet control.
type Options struct {
	Countries []Option            `json:"countries"`
	Grades    []Option            `json:"grades"`
	Nova      nutrition.Range     `json:"nova"`
	Default   nutrition.Selection `json:"default"`
}

// Options returns the facet domains of d's dataset: countries in
// order of first appearance labeled with their display names, the
// sorted grades, and the full NOVA range.
func (d *Dashboard) Options() Options {
	var o Options
	for _, code := range d.data.Countries() {
		o.Countries = append(o.Countries, Option{Label: nutrition.CountryName(code), Value: code})
	}
	for _, g := range d.data.Grades() {
		o.Grades = append(o.Grades, Option{Label: g, Value: g})
	}
	o.Nova = nutrition.FullRange
	o.Default = d.DefaultSelection()
	return o
}

// DefaultSelection returns the initial selection: the first five
// countries of the dataset, every grade, and every NOVA group.
func (d *Dashboard) DefaultSelection() nutrition.Selection {
	countries := d.data.Countries()
	if len(countries) > 5 {
		countries = countries[:5]
	}
	grades := d.data.Grades()
	if grades == nil {
		grades = []string{}
	}
	return nutrition.Selection{
		Countries: countries,
		Grades:    grades,
		Nova:      nutrition.FullRange,
	}
}
