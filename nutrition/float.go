// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that may be missing.
//
// Missing values are first-class: they are never silently turned
// into zero. The only place a zero is invented for missing data is
// Shares, which zero-fills unobserved subgroups.
type Float struct {
	V     float64
	Valid bool
}

// Null is the missing Float.
var Null = Float{}

// Some returns a valid Float holding x. NaN is treated as missing.
func Some(x float64) Float {
	if math.IsNaN(x) {
		return Null
	}
	return Float{x, true}
}

// Or returns f's value, or def if f is missing.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.V
}

// NaN returns f's value, or NaN if f is missing. This is the
// representation go-gg tables and plots use for missing data.
func (f Float) NaN() float64 {
	return f.Or(math.NaN())
}

func (f Float) String() string {
	if !f.Valid {
		return "null"
	}
	return strconv.FormatFloat(f.V, 'g', -1, 64)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.V)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Null
		return nil
	}
	var x float64
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*f = Some(x)
	return nil
}
