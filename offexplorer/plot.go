// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh/terminal"
)

func (a *app) plotCmd() *cobra.Command {
	var (
		sf            selectionFlags
		out           string
		open          bool
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "plot [flags] panel",
		Short: "Render one dashboard chart as SVG",
		Long: `Plot computes the chart of one dashboard panel under the given
selection and writes it as SVG to the -o file or to standard output.
With --open, the result is opened with the configured viewer.`,
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
			if width <= 0 {
				width = a.cfg.Render.Width
			}
			if height <= 0 {
				height = a.cfg.Render.Height
			}

			var w io.Writer = cmd.OutOrStdout()
			switch {
			case out == "" && open:
				f, err := os.CreateTemp("", "offexplorer-*.svg")
				if err != nil {
					return err
				}
				out = f.Name()
				f.Close()
				fallthrough
			case out != "":
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			case isTerminal(w):
				return errors.New("refusing to write SVG to a terminal; use -o or --open")
			}

			if err := dashboard.WriteSVG(w, c, width, height); err != nil {
				return err
			}
			if f, ok := w.(*os.File); ok && f != os.Stdout {
				if err := f.Close(); err != nil {
					return err
				}
			}
			a.log.Debug("wrote chart", zap.String("panel", c.ID), zap.String("file", out), zap.Bool("empty", c.Empty()))

			if open {
				return a.view(out)
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "write SVG to `file`")
	cmd.Flags().BoolVar(&open, "open", false, "open the chart with the configured viewer")
	cmd.Flags().IntVar(&width, "width", 0, "chart width in pixels (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "chart height in pixels (default from config)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && terminal.IsTerminal(int(f.Fd()))
}

// view starts the configured viewer on path and does not wait for
// it to exit.
func (a *app) view(path string) error {
	argv, err := shellquote.Split(a.cfg.Viewer)
	if err != nil {
		return fmt.Errorf("bad viewer command %q: %w", a.cfg.Viewer, err)
	}
	if len(argv) == 0 {
		return errors.New("no viewer configured (set viewer or BROWSER)")
	}
	argv = append(argv, path)
	a.log.Debug("starting viewer", zap.Strings("argv", argv))
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout, cmd.Stderr = os.Stderr, os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
