// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) facetsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Print the facet values of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, sel, err := a.loadDashboard(cmd.Context())
			if err != nil {
				return err
			}
			o := d.Options()
			o.Default = sel
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(o)
			}

			fmt.Fprintln(w, "countries:")
			for _, c := range o.Countries {
				fmt.Fprintf(w, "\t%s\t%s\n", c.Value, c.Label)
			}
			var grades []string
			for _, g := range o.Grades {
				grades = append(grades, g.Value)
			}
			fmt.Fprintf(w, "grades:\t%s\n", strings.Join(grades, " "))
			fmt.Fprintf(w, "nova:\t%d-%d\n", o.Nova.Low, o.Nova.High)
			fmt.Fprintf(w, "default:\tcountries=%s grades=%s nova=%d,%d\n",
				strings.Join(sel.Countries, ","), strings.Join(sel.Grades, ","), sel.Nova.Low, sel.Nova.High)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
