// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dashboard

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/palette"
)

// Fixed categorical color maps.
var (
	gradeColors = map[string]string{
		"A": "#4CAF50",
		"B": "#8BC34A",
		"C": "#FFC107",
		"D": "#FF9800",
		"E": "#F44336",
	}
	novaColors = map[string]string{
		"1": "#4CAF50",
		"2": "#8BC34A",
		"3": "#FFC107",
		"4": "#F44336",
	}
	nutrientColors = map[string]string{
		"Fat":      "#FF9800",
		"Sugars":   "#F44336",
		"Proteins": "#4CAF50",
		"Carbs":    "#2196F3",
		"Salt":     "#9C27B0",
	}
)

// qualitative is the fallback color cycle for categories without a
// fixed color.
var qualitative = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// gradient runs from green through yellow to red.
var gradient = palette.RGBGradient{
	Colors: []color.RGBA{
		{0x00, 0x80, 0x00, 0xff},
		{0xff, 0xff, 0x00, 0xff},
		{0xff, 0x00, 0x00, 0xff},
	},
}

// namedPalette returns the categorical color map named name. The
// "gradient" palette is continuous and has no categorical map.
func namedPalette(name string) (map[string]string, error) {
	switch name {
	case "", "gradient":
		return nil, nil
	case "grade":
		return gradeColors, nil
	case "nova":
		return novaColors, nil
	case "nutrient":
		return nutrientColors, nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// colorize assigns a color to each of keys. Keys found in the named
// palette (after mapping display labels back to raw levels) use
// their fixed color; others are assigned from the qualitative cycle
// in order. Entries in override take precedence.
func colorize(keys []string, name string, labels map[string]string, override map[string]string) map[string]string {
	fixed, _ := namedPalette(name)
	raw := make(map[string]string, len(labels))
	for k, v := range labels {
		raw[v] = k
	}
	out := make(map[string]string, len(keys))
	next := 0
	for _, k := range keys {
		if _, ok := out[k]; ok {
			continue
		}
		if c, ok := override[k]; ok {
			out[k] = c
			continue
		}
		level := k
		if r, ok := raw[k]; ok {
			level = r
		}
		if c, ok := fixed[level]; ok {
			out[k] = c
			continue
		}
		out[k] = qualitative[next%len(qualitative)]
		next++
	}
	return out
}

// gradientColors maps each value in vals to a color on the gradient
// scaled to the range of vals.
func gradientColors(keys []string, vals []float64) map[string]string {
	out := make(map[string]string, len(keys))
	if len(vals) == 0 {
		return out
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	for i, k := range keys {
		x := 0.5
		if hi > lo {
			x = (vals[i] - lo) / (hi - lo)
		}
		out[k] = hexColor(gradient.Map(x))
	}
	return out
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// parseHex parses a "#RRGGBB" color.
func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
