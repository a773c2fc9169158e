// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aclements/go-foodfacts/internal/sqlstore"
	"github.com/aclements/go-foodfacts/nutrition"
)

const testCSV = `country_code,nutrition_grade,nova_group,nutriments.fat_100g,nutriments.sugars_100g,nutriments.proteins_100g,nutriments.carbohydrates_100g,nutriments.salt_100g,additives_n,nutrition_score
us,A,1,1,2,3,4,0.1,0,-1
fr,B,4,5,6,7,8,0.2,3,9
`

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "off.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	gzPath := filepath.Join(dir, "off.csv.gz")
	f, err := os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	zw.Write([]byte(testCSV))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	d, err := Open(ctx, csvPath)
	if err != nil {
		t.Fatalf("Open(csv): %v", err)
	}
	dbPath := filepath.Join(dir, "off.db")
	if err := sqlstore.Export(ctx, dbPath, d); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{csvPath, gzPath, dbPath} {
		d, err := Open(ctx, path)
		if err != nil {
			t.Errorf("Open(%s): %v", path, err)
			continue
		}
		if d.Len() != 2 || d.At(1).CountryName != "France" {
			t.Errorf("Open(%s) = %v", path, d)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"missing.csv", "missing.db"} {
		_, err := Open(context.Background(), filepath.Join(dir, name))
		var lerr *nutrition.DataLoadError
		if !errors.As(err, &lerr) {
			t.Errorf("Open(%s) = %v, want DataLoadError", name, err)
		}
	}
}

func TestIsSnapshot(t *testing.T) {
	for path, want := range map[string]bool{
		"off.db":      true,
		"OFF.SQLite":  true,
		"x.sqlite3":   true,
		"off.csv":     false,
		"off.csv.gz":  false,
		"db":          false,
		"data.db/x.c": false,
	} {
		if got := IsSnapshot(path); got != want {
			t.Errorf("IsSnapshot(%q) = %v, want %v", path, got, want)
		}
	}
}
