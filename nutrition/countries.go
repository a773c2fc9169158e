// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import "strings"

var countryNames = map[string]string{
	"us": "United States",
	"fr": "France",
	"uk": "United Kingdom",
	"de": "Germany",
	"es": "Spain",
	"it": "Italy",
	"cn": "China",
	"jp": "Japan",
	"in": "India",
	"br": "Brazil",
	"au": "Australia",
}

// gdpPerCapita is in USD.
var gdpPerCapita = map[string]float64{
	"us": 65000,
	"fr": 38000,
	"uk": 40000,
	"de": 45000,
	"es": 27000,
	"it": 31000,
	"cn": 10000,
	"jp": 40000,
	"in": 2000,
	"br": 8000,
	"au": 55000,
}

// CountryName returns the display name of country code. Codes
// without a known name are displayed as the upper-cased code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// GDPPerCapita returns the GDP per capita of country code, or Null
// if it is not known.
func GDPPerCapita(code string) Float {
	if x, ok := gdpPerCapita[code]; ok {
		return Some(x)
	}
	return Null
}
