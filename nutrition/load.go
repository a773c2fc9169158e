// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// nullCells are the cell spellings that denote a missing value.
var nullCells = map[string]bool{
	"": true, "nan": true, "NaN": true, "NAN": true,
	"null": true, "NULL": true, "None": true, "NA": true,
}

// LoadFile reads a CSV dataset from path. If path ends in ".gz", it
// is decompressed first.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &DataLoadError{Source: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}
	return load(path, r)
}

// Load reads a CSV dataset from r. The first row must name the
// columns. All of RequiredColumns must be present; OptionalColumns
// are read if present and other columns are ignored.
func Load(r io.Reader) (*Dataset, error) {
	return load("<input>", r)
}

func load(source string, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Source: source, Reason: "empty input"}
	} else if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	// Index the header.
	index := make(map[Column]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if c := Column(name); c.Known() {
			if _, dup := index[c]; !dup {
				index[c] = i
			}
		}
	}
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			return nil, &DataLoadError{Source: source, Column: c, Reason: "missing required column"}
		}
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &DataLoadError{Source: source, Row: row, Err: perr.Err}
			}
			return nil, &DataLoadError{Source: source, Row: row, Err: err}
		}

		cell := func(c Column) string {
			i, ok := index[c]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		var rec Record
		for c, f := range text {
			if _, ok := index[c]; ok {
				*f(&rec) = cell(c)
			}
		}
		for c, f := range numeric {
			if _, ok := index[c]; !ok {
				continue
			}
			v, err := parseFloat(cell(c))
			if err != nil {
				return nil, &DataLoadError{Source: source, Row: row, Column: c, Err: err}
			}
			*f(&rec) = v
		}
		if rec.CountryCode == "" {
			return nil, &DataLoadError{Source: source, Row: row, Column: ColCountryCode, Reason: "missing country code"}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, &DataLoadError{Source: source, Reason: "no rows"}
	}
	return NewDataset(source, records)
}

func parseFloat(s string) (Float, error) {
	if nullCells[s] {
		return Null, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var nerr *strconv.NumError
		if errors.As(err, &nerr) {
			err = nerr.Err
		}
		return Null, errors.New("bad number " + strconv.Quote(s) + ": " + err.Error())
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return Null, errors.New("non-finite number " + strconv.Quote(s))
	}
	return Some(x), nil
}

// parseGrade normalizes a nutrition grade. Anything other than A
// through E is missing.
func parseGrade(s string) string {
	s = strings.ToUpper(s)
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'E' {
		return s
	}
	return ""
}

// parseNova normalizes a NOVA group. Anything other than an integer
// 1 through 4 is missing.
func parseNova(v Float) Float {
	if !v.Valid || v.V != math.Trunc(v.V) || v.V < NovaMin || v.V > NovaMax {
		return Null
	}
	return v
}
