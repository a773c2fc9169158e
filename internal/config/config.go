// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads offexplorer configuration.
//
// Configuration comes from an optional YAML file, then from a .env
// file in the working directory, then from the environment. Later
// sources override earlier ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read if none is named.
const DefaultPath = "offexplorer.yaml"

// Config holds all offexplorer configuration.
type Config struct {
	// Dataset is the path of the CSV (optionally gzipped) or
	// SQLite dataset to load.
	Dataset string `yaml:"dataset"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Render  RenderConfig  `yaml:"render"`

	// Viewer is the command used to open rendered charts. The
	// file name is appended as the last argument.
	Viewer string `yaml:"viewer"`

	Defaults DefaultsConfig `yaml:"defaults"`

	// Panels replaces the built-in dashboard panels if non-empty.
	Panels []dashboard.PanelSpec `yaml:"panels"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// RenderConfig is the default size of rendered charts.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultsConfig overrides parts of the initial facet selection.
// Empty fields leave the dataset-derived default in place.
type DefaultsConfig struct {
	Countries []string `yaml:"countries"`
	Grades    []string `yaml:"grades"`
	Nova      []int    `yaml:"nova"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dataset: "openfoodfacts_data.csv",
		Server: ServerConfig{
			Addr:         ":8050",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Render: RenderConfig{
			Width:  960,
			Height: 540,
		},
		Viewer: "xdg-open",
	}
}

// Load loads configuration from the YAML file at path. A missing
// file is not an error; the defaults are used. Environment overrides
// are applied in either case.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// Values already in the environment take precedence over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OFFX_DATASET"); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv("OFFX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("OFFX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OFFX_ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("BROWSER"); v != "" {
		c.Viewer = v
	}
}

// ValidLevels lists the supported log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return errors.New("no dataset configured (set dataset or OFFX_DATASET)")
	}
	if c.Server.Addr == "" {
		return errors.New("no server address configured")
	}

	valid := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if f := c.Logging.Format; f != "json" && f != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", f)
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if n := len(c.Defaults.Nova); n != 0 {
		if n != 2 {
			return fmt.Errorf("defaults.nova must be [low, high], got %v", c.Defaults.Nova)
		}
		sel := nutrition.Selection{Nova: nutrition.Range{Low: c.Defaults.Nova[0], High: c.Defaults.Nova[1]}}
		if err := sel.Validate(); err != nil {
			return fmt.Errorf("defaults.nova: %w", err)
		}
	}
	return nil
}

// Selection returns base with the configured defaults applied.
func (c *Config) Selection(base nutrition.Selection) nutrition.Selection {
	d := c.Defaults
	if len(d.Countries) > 0 {
		base.Countries = make([]string, len(d.Countries))
		for i, code := range d.Countries {
			base.Countries[i] = strings.ToLower(strings.TrimSpace(code))
		}
	}
	if len(d.Grades) > 0 {
		base.Grades = make([]string, len(d.Grades))
		for i, g := range d.Grades {
			base.Grades[i] = strings.ToUpper(strings.TrimSpace(g))
		}
	}
	if len(d.Nova) == 2 {
		base.Nova = nutrition.Range{Low: d.Nova[0], High: d.Nova[1]}
	}
	return base
}
