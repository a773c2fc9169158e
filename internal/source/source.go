// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source opens a nutrition dataset by path, choosing the
// loader from the file extension.
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aclements/go-foodfacts/internal/sqlstore"
	"github.com/aclements/go-foodfacts/nutrition"
)

// IsSnapshot reports whether path names a SQLite snapshot rather
// than a CSV file.
func IsSnapshot(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open loads the dataset at path. Paths ending in .db, .sqlite, or
// .sqlite3 are read as snapshots written by sqlstore.Export;
// anything else is read as CSV, gunzipping it if it ends in .gz.
// All load failures are *nutrition.DataLoadError.
func Open(ctx context.Context, path string) (*nutrition.Dataset, error) {
	if IsSnapshot(path) {
		return sqlstore.Load(ctx, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, &nutrition.DataLoadError{Source: path, Err: err}
	}
	return nutrition.LoadFile(path)
}
