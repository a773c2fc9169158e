// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"
)

func (a *app) tableCmd() *cobra.Command {
	var (
		sf   selectionFlags
		tidy bool
	)
	cmd := &cobra.Command{
		Use:   "table [flags] panel",
		Short: "Print the data behind one dashboard chart",
		Long: `Table computes the chart of one dashboard panel under the given
selection and prints its rows as an aligned table. With --tidy, it
prints one row per group and metric instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, def, err := a.loadDashboard(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := sf.apply(cmd, def)
			if err != nil {
				return err
			}
			c, err := d.Chart(cmd.Context(), args[0], sel)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if c.Empty() {
				fmt.Fprintln(w, c.Message)
				return nil
			}
			table.Fprint(w, chartTable(c, tidy))
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&tidy, "tidy", false, "print one row per group and metric")
	return cmd
}

// chartTable returns the rows of c as a go-gg table.
func chartTable(c *dashboard.Chart, tidy bool) *table.Table {
	switch {
	case len(c.Points) > 0:
		n := len(c.Points)
		x, y, size := make([]float64, n), make([]float64, n), make([]float64, n)
		for i, p := range c.Points {
			x[i], y[i], size[i] = p.X.NaN(), p.Y.NaN(), p.Size.NaN()
		}
		b := new(table.Builder)
		for d, dim := range c.Dims {
			col := make([]string, n)
			for i, p := range c.Points {
				col[i] = p.Key[d]
			}
			b.Add(dim, col)
		}
		b.Add(c.X, x).Add(c.Y, y)
		if c.Size != "" {
			b.Add(c.Size, size)
		}
		return b.Done()
	case tidy:
		return nutrition.TidyTable(c.Tidy, c.Dims)
	}
	return nutrition.AggregateTable(c.Rows, c.Dims, c.Metrics)
}
