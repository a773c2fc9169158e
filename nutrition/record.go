// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nutrition loads, filters, and summarizes a table of food
// product observations.
//
// The pipeline is a sequence of pure functions: a Dataset is loaded
// once, Filter selects the rows matching a Selection, Aggregate and
// Shares summarize them by one or two dimensions, and Reshape turns
// the wide summaries into tidy (key, metric, value) rows for
// rendering. Every stage returns a new value and none of them
// modify their inputs, so any number of goroutines may run the
// pipeline against the same Dataset.
package nutrition

import (
	"strconv"
	"strings"
)

// Record is a single product observation (one row of the dataset).
type Record struct {
	Code        string
	ProductName string
	Brands      string

	// CountryCode is the lower-case country code. It is never
	// empty in a loaded Dataset.
	CountryCode string

	// CountryName and GDPPerCapita are derived from CountryCode.
	CountryName  string
	GDPPerCapita Float

	// Continent is "" if unknown.
	Continent string

	// Grade is the nutrition grade "A" through "E", or "" if
	// unknown.
	Grade string

	// Nova is the NOVA processing group, an integer 1 through 4.
	Nova Float

	// Nutrients per 100g.
	Fat           Float
	Sugars        Float
	Proteins      Float
	Carbohydrates Float
	Salt          Float

	Additives      Float
	Ingredients    Float
	NutritionScore Float
}

// Column names a column of the dataset. Column names are fixed
// contract strings shared by the CSV format, the SQLite snapshot,
// panel configurations, and go-gg tables.
type Column string

const (
	ColCode        Column = "code"
	ColProductName Column = "product_name"
	ColBrands      Column = "brands"
	ColCountryCode Column = "country_code"
	ColCountryName Column = "country_name"
	ColContinent   Column = "continent"
	ColGrade       Column = "nutrition_grade"
	ColNova        Column = "nova_group"

	ColFat           Column = "nutriments.fat_100g"
	ColSugars        Column = "nutriments.sugars_100g"
	ColProteins      Column = "nutriments.proteins_100g"
	ColCarbohydrates Column = "nutriments.carbohydrates_100g"
	ColSalt          Column = "nutriments.salt_100g"

	ColAdditives      Column = "additives_n"
	ColIngredients    Column = "ingredients_count"
	ColNutritionScore Column = "nutrition_score"
	ColGDPPerCapita   Column = "gdp_per_capita"
)

// RequiredColumns must be present in every source file.
var RequiredColumns = []Column{
	ColCountryCode, ColGrade, ColNova,
	ColFat, ColSugars, ColProteins, ColCarbohydrates, ColSalt,
	ColAdditives, ColNutritionScore,
}

// OptionalColumns are read if present.
var OptionalColumns = []Column{
	ColCode, ColProductName, ColBrands, ColIngredients, ColContinent,
}

// numeric maps each numeric column to its field.
var numeric = map[Column]func(r *Record) *Float{
	ColNova:           func(r *Record) *Float { return &r.Nova },
	ColFat:            func(r *Record) *Float { return &r.Fat },
	ColSugars:         func(r *Record) *Float { return &r.Sugars },
	ColProteins:       func(r *Record) *Float { return &r.Proteins },
	ColCarbohydrates:  func(r *Record) *Float { return &r.Carbohydrates },
	ColSalt:           func(r *Record) *Float { return &r.Salt },
	ColAdditives:      func(r *Record) *Float { return &r.Additives },
	ColIngredients:    func(r *Record) *Float { return &r.Ingredients },
	ColNutritionScore: func(r *Record) *Float { return &r.NutritionScore },
	ColGDPPerCapita:   func(r *Record) *Float { return &r.GDPPerCapita },
}

// text maps each string column to its field.
var text = map[Column]func(r *Record) *string{
	ColCode:        func(r *Record) *string { return &r.Code },
	ColProductName: func(r *Record) *string { return &r.ProductName },
	ColBrands:      func(r *Record) *string { return &r.Brands },
	ColCountryCode: func(r *Record) *string { return &r.CountryCode },
	ColCountryName: func(r *Record) *string { return &r.CountryName },
	ColContinent:   func(r *Record) *string { return &r.Continent },
	ColGrade:       func(r *Record) *string { return &r.Grade },
}

// IsNumeric reports whether c names a numeric column.
func (c Column) IsNumeric() bool {
	_, ok := numeric[c]
	return ok
}

// Known reports whether c names any column.
func (c Column) Known() bool {
	_, ok := text[c]
	return ok || c.IsNumeric()
}

// Value returns the value of numeric column c in r. It returns Null
// if c is not numeric.
func (c Column) Value(r *Record) Float {
	f, ok := numeric[c]
	if !ok {
		return Null
	}
	return *f(r)
}

// Key returns the value of c in r as a grouping key. ok is false if
// the value is missing. Numeric values are formatted with the
// shortest representation, so NOVA groups become "1" through "4".
func (c Column) Key(r *Record) (key string, ok bool) {
	if f, isText := text[c]; isText {
		s := *f(r)
		return s, s != ""
	}
	v := c.Value(r)
	if !v.Valid {
		return "", false
	}
	return strconv.FormatFloat(v.V, 'f', -1, 64), true
}

// ParseColumn returns the Column named s.
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.TrimSpace(s))
	return c, c.Known()
}
