// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlstore saves and loads nutrition datasets as SQLite
// snapshots.
//
// A snapshot holds a single "products" table whose columns are the
// stored nutrition columns, plus a "meta" table recording where the
// records came from. Loading a snapshot is much faster than parsing
// the original CSV.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/aclements/go-foodfacts/nutrition"
	_ "modernc.org/sqlite"
)

// field binds a stored column to its Record field. Exactly one of
// text and num is set.
type field struct {
	col  nutrition.Column
	text func(r *nutrition.Record) *string
	num  func(r *nutrition.Record) *nutrition.Float
}

// fields lists the stored columns. Derived columns (country name
// and GDP) are recomputed on load.
var fields = []field{
	{col: nutrition.ColCode, text: func(r *nutrition.Record) *string { return &r.Code }},
	{col: nutrition.ColProductName, text: func(r *nutrition.Record) *string { return &r.ProductName }},
	{col: nutrition.ColBrands, text: func(r *nutrition.Record) *string { return &r.Brands }},
	{col: nutrition.ColCountryCode, text: func(r *nutrition.Record) *string { return &r.CountryCode }},
	{col: nutrition.ColContinent, text: func(r *nutrition.Record) *string { return &r.Continent }},
	{col: nutrition.ColGrade, text: func(r *nutrition.Record) *string { return &r.Grade }},
	{col: nutrition.ColNova, num: func(r *nutrition.Record) *nutrition.Float { return &r.Nova }},
	{col: nutrition.ColFat, num: func(r *nutrition.Record) *nutrition.Float { return &r.Fat }},
	{col: nutrition.ColSugars, num: func(r *nutrition.Record) *nutrition.Float { return &r.Sugars }},
	{col: nutrition.ColProteins, num: func(r *nutrition.Record) *nutrition.Float { return &r.Proteins }},
	{col: nutrition.ColCarbohydrates, num: func(r *nutrition.Record) *nutrition.Float { return &r.Carbohydrates }},
	{col: nutrition.ColSalt, num: func(r *nutrition.Record) *nutrition.Float { return &r.Salt }},
	{col: nutrition.ColAdditives, num: func(r *nutrition.Record) *nutrition.Float { return &r.Additives }},
	{col: nutrition.ColIngredients, num: func(r *nutrition.Record) *nutrition.Float { return &r.Ingredients }},
	{col: nutrition.ColNutritionScore, num: func(r *nutrition.Record) *nutrition.Float { return &r.NutritionScore }},
}

func quotedColumns() []string {
	qs := make([]string, len(fields))
	for i, f := range fields {
		qs[i] = fmt.Sprintf("%q", string(f.col))
	}
	return qs
}

// Export writes d to a new SQLite snapshot at path, replacing any
// existing file.
func Export(ctx context.Context, path string, d *nutrition.Dataset) (err error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	defs := make([]string, len(fields))
	for i, f := range fields {
		typ := "TEXT"
		if f.num != nil {
			typ = "REAL"
		}
		defs[i] = fmt.Sprintf("%q %s", string(f.col), typ)
	}
	for _, stmt := range []string{
		`CREATE TABLE "meta" ("key" TEXT PRIMARY KEY, "value" TEXT)`,
		`CREATE TABLE "products" (` + strings.Join(defs, ",") + `)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating snapshot schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO "meta" VALUES ('source', ?)`, d.Source()); err != nil {
		return err
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(fields)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO "products" (`+strings.Join(quotedColumns(), ",")+`) VALUES (`+ph+`)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(fields))
	for i := 0; i < d.Len(); i++ {
		r := d.At(i)
		for j, f := range fields {
			if f.text != nil {
				args[j] = sql.NullString{String: *f.text(&r), Valid: *f.text(&r) != ""}
			} else {
				v := *f.num(&r)
				args[j] = sql.NullFloat64{Float64: v.V, Valid: v.Valid}
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX "idx_products_country" ON "products"("country_code")`); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads a snapshot written by Export. Errors are reported as
// *nutrition.DataLoadError.
func Load(ctx context.Context, path string) (*nutrition.Dataset, error) {
	// Opening a missing path would create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}
	defer db.Close()

	source := path
	var orig string
	switch err := db.QueryRowContext(ctx, `SELECT "value" FROM "meta" WHERE "key" = 'source'`).Scan(&orig); err {
	case nil:
		source = orig + " via " + path
	case sql.ErrNoRows:
	default:
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}

	rows, err := db.QueryContext(ctx, `SELECT `+strings.Join(quotedColumns(), ",")+` FROM "products" ORDER BY rowid`)
	if err != nil {
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}
	defer rows.Close()

	var records []nutrition.Record
	texts := make([]sql.NullString, len(fields))
	nums := make([]sql.NullFloat64, len(fields))
	dest := make([]any, len(fields))
	for i, f := range fields {
		if f.text != nil {
			dest[i] = &texts[i]
		} else {
			dest[i] = &nums[i]
		}
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &nutrition.DataLoadError{Source: path, Row: len(records) + 1, Err: err}
		}
		var r nutrition.Record
		for i, f := range fields {
			if f.text != nil {
				*f.text(&r) = texts[i].String
			} else if nums[i].Valid {
				*f.num(&r) = nutrition.Some(nums[i].Float64)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}
	return nutrition.NewDataset(source, records)
}
