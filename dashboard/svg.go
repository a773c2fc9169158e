// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dashboard

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// errWriter records the first error from w and discards writes after
// it, since svgo does not report write errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

const (
	titleStyle  = "font-family:sans-serif;font-size:16px;text-anchor:middle"
	labelStyle  = "font-family:sans-serif;font-size:11px"
	legendWidth = 220
)

// begin starts an SVG document with a white background and c's
// title.
func begin(w io.Writer, c *Chart, width, height int) (*svg.SVG, *errWriter) {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Text(width/2, 24, c.Title, titleStyle)
	return canvas, ew
}

// writeMessage draws an empty chart carrying c.Message.
func writeMessage(w io.Writer, c *Chart, width, height int) error {
	canvas, ew := begin(w, c, width, height)
	msg := c.Message
	if msg == "" {
		msg = EmptyMessage
	}
	canvas.Text(width/2, height/2, msg, "font-family:sans-serif;font-size:14px;fill:gray;text-anchor:middle")
	canvas.End()
	return ew.err
}

// legend draws c's color legend in a column at x.
func legend(canvas *svg.SVG, c *Chart, x, y int) {
	for i, k := range c.Order {
		yi := y + i*18
		canvas.Rect(x, yi, 12, 12, "fill:"+hexColor(colorOf(c, k)))
		canvas.Text(x+18, yi+10, k, labelStyle)
	}
}

// niceStep returns a round tick spacing giving about n ticks over
// [0, max].
func niceStep(max float64, n int) float64 {
	raw := max / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

type segment struct {
	name  string
	value float64
}

// writeStacked draws one bar per category, stacking the chart's
// values in legend order.
func writeStacked(w io.Writer, c *Chart, width, height int) error {
	// Tidy rows are already in stacking order. A second key
	// dimension names the segment; otherwise the metric does.
	stacks := make(map[string][]segment)
	totals := make(map[string]float64)
	max := 0.0
	for _, r := range c.Tidy {
		if !r.Value.Valid || r.Value.V <= 0 {
			continue
		}
		name := r.Metric
		if len(r.Key) > 1 {
			name = r.Key[1]
		}
		cat := r.Key[0]
		stacks[cat] = append(stacks[cat], segment{name, r.Value.V})
		totals[cat] += r.Value.V
		max = math.Max(max, totals[cat])
	}
	if max == 0 {
		return writeMessage(w, c, width, height)
	}

	canvas, ew := begin(w, c, width, height)
	left, top := 70, 40
	right, bottom := width-legendWidth, height-60
	scale := func(v float64) int {
		return bottom - int(v/max*float64(bottom-top))
	}

	// Axis and grid.
	step := niceStep(max, 5)
	for v := 0.0; v <= max; v += step {
		y := scale(v)
		canvas.Line(left, y, right, y, "stroke:#e0e0e0")
		canvas.Text(left-6, y+4, fmt.Sprintf("%.4g", v), labelStyle+";text-anchor:end")
	}
	canvas.Line(left, bottom, right, bottom, "stroke:black")
	if c.YLabel != "" {
		canvas.TranslateRotate(16, (top+bottom)/2, -90)
		canvas.Text(0, 0, c.YLabel, labelStyle+";text-anchor:middle")
		canvas.Gend()
	}
	if c.XLabel != "" {
		canvas.Text((left+right)/2, height-12, c.XLabel, labelStyle+";text-anchor:middle")
	}

	slot := float64(right-left) / float64(len(c.Categories))
	bw := int(slot * 0.7)
	for i, cat := range c.Categories {
		x := left + int(float64(i)*slot+(slot-float64(bw))/2)
		acc := 0.0
		for _, s := range stacks[cat] {
			y0, y1 := scale(acc), scale(acc+s.value)
			canvas.Rect(x, y1, bw, y0-y1, "fill:"+hexColor(colorOf(c, s.name)))
			acc += s.value
		}
		canvas.Text(x+bw/2, bottom+16, cat, labelStyle+";text-anchor:middle")
	}

	legend(canvas, c, right+20, top)
	canvas.End()
	return ew.err
}

// writeRadar draws one closed polygon per group over the chart's
// metrics, scaled to c.RadialMax.
func writeRadar(w io.Writer, c *Chart, width, height int) error {
	max := c.RadialMax.Or(0)
	metrics := plotted(c)
	if max <= 0 || len(metrics) < 3 {
		return writeMessage(w, c, width, height)
	}

	canvas, ew := begin(w, c, width, height)
	cx, cy := (width-legendWidth)/2, height/2+10
	radius := float64(min(width-legendWidth, height-60)) * 0.4
	point := func(i int, v float64) (int, int) {
		theta := 2*math.Pi*float64(i)/float64(len(metrics)) - math.Pi/2
		r := v / max * radius
		return cx + int(r*math.Cos(theta)), cy + int(r*math.Sin(theta))
	}

	// Rings and spokes.
	for ring := 1; ring <= 4; ring++ {
		var xs, ys []int
		for i := range metrics {
			x, y := point(i, max*float64(ring)/4)
			xs, ys = append(xs, x), append(ys, y)
		}
		canvas.Polygon(xs, ys, "fill:none;stroke:#e0e0e0")
	}
	for i, m := range metrics {
		x, y := point(i, max)
		canvas.Line(cx, cy, x, y, "stroke:#e0e0e0")
		lx, ly := point(i, max*1.12)
		canvas.Text(lx, ly, m, labelStyle+";text-anchor:middle")
	}

	for _, r := range c.Rows {
		var xs, ys []int
		for i, m := range metrics {
			x, y := point(i, r.Value(m).Or(0))
			xs, ys = append(xs, x), append(ys, y)
		}
		col := hexColor(colorOf(c, r.Key[0]))
		canvas.Polygon(xs, ys, "fill:"+col+";fill-opacity:0.25;stroke:"+col+";stroke-width:2")
	}

	legend(canvas, c, width-legendWidth+20, 40)
	canvas.End()
	return ew.err
}
