// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/spf13/cobra"
)

// selectionFlags are the facet flags shared by plot and table.
type selectionFlags struct {
	countries []string
	grades    []string
	nova      string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.countries, "countries", nil, "select country `codes` (default: first five)")
	cmd.Flags().StringSliceVar(&f.grades, "grades", nil, "select nutrition `grades` (default: all)")
	cmd.Flags().StringVar(&f.nova, "nova", "", "select NOVA groups in `low,high` (default: 1,4)")
}

// apply returns def with the flags that were set on cmd applied. A
// flag set to the empty string selects nothing.
func (f *selectionFlags) apply(cmd *cobra.Command, def nutrition.Selection) (nutrition.Selection, error) {
	sel := def
	if cmd.Flags().Changed("countries") {
		sel.Countries = normalize(f.countries, strings.ToLower)
	}
	if cmd.Flags().Changed("grades") {
		sel.Grades = normalize(f.grades, strings.ToUpper)
	}
	if f.nova != "" {
		lo, hi, ok := strings.Cut(f.nova, ",")
		if !ok {
			return sel, fmt.Errorf("--nova: want low,high, got %q", f.nova)
		}
		var err error
		if sel.Nova.Low, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
			return sel, fmt.Errorf("--nova: %w", err)
		}
		if sel.Nova.High, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return sel, fmt.Errorf("--nova: %w", err)
		}
	}
	return sel, sel.Validate()
}

func normalize(xs []string, norm func(string) string) []string {
	out := []string{}
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, norm(x))
		}
	}
	return out
}
