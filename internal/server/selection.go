// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aclements/go-foodfacts/nutrition"
)

// A queryError reports a malformed query parameter.
type queryError struct {
	param string
	err   error
}

func (e *queryError) Error() string {
	return fmt.Sprintf("bad query parameter %q: %v", e.param, e.err)
}

func (e *queryError) Unwrap() error {
	return e.err
}

// parseSelection builds a Selection from query parameters, starting
// from def.
//
// countries and grades are comma-separated and may be repeated. A
// parameter that is absent keeps def's value; one that is present
// but empty selects nothing. The NOVA range is given as nova=low,high
// or with nova_low and nova_high. The result is validated.
func parseSelection(q url.Values, def nutrition.Selection) (nutrition.Selection, error) {
	sel := def
	if vs, ok := q["countries"]; ok {
		sel.Countries = splitList(vs, strings.ToLower)
	}
	if vs, ok := q["grades"]; ok {
		sel.Grades = splitList(vs, strings.ToUpper)
	}

	if v := q.Get("nova"); v != "" {
		lo, hi, ok := strings.Cut(v, ",")
		if !ok {
			return sel, &queryError{"nova", fmt.Errorf("want low,high, got %q", v)}
		}
		var err error
		if sel.Nova.Low, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
			return sel, &queryError{"nova", err}
		}
		if sel.Nova.High, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return sel, &queryError{"nova", err}
		}
	}
	for _, b := range []struct {
		param string
		dst   *int
	}{{"nova_low", &sel.Nova.Low}, {"nova_high", &sel.Nova.High}} {
		v := q.Get(b.param)
		if v == "" {
			continue
		}
		x, err := strconv.Atoi(v)
		if err != nil {
			return sel, &queryError{b.param, err}
		}
		*b.dst = x
	}

	if err := sel.Validate(); err != nil {
		return sel, err
	}
	return sel, nil
}

// splitList flattens comma-separated values, normalizing each with
// norm and dropping empty elements. The result is never nil.
func splitList(vs []string, norm func(string) string) []string {
	out := []string{}
	for _, v := range vs {
		for _, x := range strings.Split(v, ",") {
			if x = strings.TrimSpace(x); x != "" {
				out = append(out, norm(x))
			}
		}
	}
	return out
}

// sizeParam returns the positive integer query parameter name, or
// def if it is absent.
func sizeParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	x, err := strconv.Atoi(v)
	if err != nil {
		return 0, &queryError{name, err}
	}
	if x <= 0 || x > 10000 {
		return 0, &queryError{name, fmt.Errorf("%d out of range", x)}
	}
	return x, nil
}
