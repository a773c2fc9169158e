// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command offexplorer explores a table of food product nutrition
// facts.
//
// It loads an OpenFoodFacts-derived dataset (CSV, gzipped CSV, or a
// SQLite snapshot written by "offexplorer export") once and then
// either serves the dashboard over HTTP or computes a single chart:
//
//	offexplorer serve
//	offexplorer plot -o grades.svg grades --countries us,fr
//	offexplorer table additives --nova 1,3
//	offexplorer export off.db
//	offexplorer facets
//
// Configuration is read from offexplorer.yaml if it exists, then
// from .env and the environment. See internal/config.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/aclements/go-foodfacts/internal/config"
	"github.com/aclements/go-foodfacts/internal/logging"
	"github.com/aclements/go-foodfacts/internal/source"
	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds state shared by all subcommands.
type app struct {
	configPath string
	dataset    string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "offexplorer",
		Short: "Explore food product nutrition facts",
		Long: `offexplorer filters, aggregates, and charts a table of food products
by country, nutrition grade, and NOVA processing group.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.dataset != "" {
				cfg.Dataset = a.dataset
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return err
			}
			a.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "read configuration from `file`")
	root.PersistentFlags().StringVarP(&a.dataset, "dataset", "d", "", "load dataset from `path` (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.serveCmd(),
		a.plotCmd(),
		a.tableCmd(),
		a.exportCmd(),
		a.facetsCmd(),
	)
	return root
}

// loadData loads the configured dataset.
func (a *app) loadData(ctx context.Context) (*nutrition.Dataset, error) {
	a.log.Debug("loading dataset", zap.String("path", a.cfg.Dataset))
	d, err := source.Open(ctx, a.cfg.Dataset)
	if err != nil {
		return nil, err
	}
	a.log.Info("loaded dataset",
		zap.String("source", d.Source()),
		zap.Int("records", d.Len()),
		zap.Int("countries", len(d.Countries())))
	return d, nil
}

// loadDashboard loads the configured dataset and builds the
// dashboard and its default selection.
func (a *app) loadDashboard(ctx context.Context) (*dashboard.Dashboard, nutrition.Selection, error) {
	data, err := a.loadData(ctx)
	if err != nil {
		return nil, nutrition.Selection{}, err
	}
	d, err := dashboard.New(data, a.cfg.Panels...)
	if err != nil {
		return nil, nutrition.Selection{}, fmt.Errorf("bad panel configuration: %w", err)
	}
	return d, a.cfg.Selection(d.DefaultSelection()), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "offexplorer:", err)
		os.Exit(1)
	}
}
