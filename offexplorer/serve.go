// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aclements/go-foodfacts/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve loads the dataset and then serves the dashboard API until
interrupted. A dataset that fails to load is fatal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, sel, err := a.loadDashboard(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			s := server.New(d, a.log, server.Options{
				AllowOrigins: a.cfg.Server.AllowOrigins,
				Default:      sel,
				Width:        a.cfg.Render.Width,
				Height:       a.cfg.Render.Height,
			})
			a.log.Info("starting server", zap.String("addr", addr), zap.Int("panels", len(d.Panels())))
			return s.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen on `address` (overrides config)")
	return cmd
}
