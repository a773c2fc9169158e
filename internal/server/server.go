// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server serves a dashboard over HTTP.
//
// All JSON responses are wrapped in a Response envelope. Charts can
// also be fetched as rendered SVG.
package server

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/aclements/go-foodfacts/dashboard"
	"github.com/aclements/go-foodfacts/nutrition"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "requestID"

// Options configures a Server.
type Options struct {
	// AllowOrigins lists the origins allowed to make cross-origin
	// requests. If empty, CORS is not enabled.
	AllowOrigins []string

	// Default is the selection used for query parameters that are
	// absent. If its Countries is nil, the dashboard's
	// DefaultSelection is used instead.
	Default nutrition.Selection

	// Width and Height are the default size of rendered SVG charts.
	Width, Height int
}

// Server is the HTTP front end of a Dashboard.
type Server struct {
	dash   *dashboard.Dashboard
	log    *zap.Logger
	opts   Options
	engine *gin.Engine
}

// New returns a Server for d.
func New(d *dashboard.Dashboard, logger *zap.Logger, opts Options) *Server {
	if opts.Default.Countries == nil {
		opts.Default = d.DefaultSelection()
	}
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 540
	}
	s := &Server{dash: d, log: logger, opts: opts}

	router := gin.New()
	router.Use(s.requestID(), s.logRequests(), gin.Recovery())
	if len(opts.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, successResponse(c, "ok", gin.H{"records": d.Data().Len()}))
	})
	api := router.Group("/api/v1")
	{
		api.GET("/facets", s.facets)
		api.GET("/panels", s.panels)
		api.GET("/charts", s.charts)
		api.GET("/charts/:id", s.chart)
		api.GET("/charts/:id/svg", s.chartSVG)
	}
	s.engine = router
	return s
}

// Handler returns s as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.log.Info("serving", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Error("request", fields...)
		} else {
			s.log.Info("request", fields...)
		}
	}
}

// fail writes an error response for err.
func (s *Server) fail(c *gin.Context, err error) {
	var selErr *nutrition.InvalidSelectionError
	var qErr *queryError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &selErr), errors.As(err, &qErr):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownPanel):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	c.Error(err)
	c.JSON(status, errorResponse(c, err.Error()))
}

func (s *Server) facets(c *gin.Context) {
	o := s.dash.Options()
	o.Default = s.opts.Default
	c.JSON(http.StatusOK, successResponse(c, "Facet options retrieved", o))
}

func (s *Server) panels(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(c, "Panels retrieved", s.dash.Panels()))
}

func (s *Server) charts(c *gin.Context) {
	sel, err := parseSelection(c.Request.URL.Query(), s.opts.Default)
	if err != nil {
		s.fail(c, err)
		return
	}
	charts, err := s.dash.Render(c.Request.Context(), sel)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(c, "Charts computed", charts))
}

func (s *Server) chart(c *gin.Context) {
	sel, err := parseSelection(c.Request.URL.Query(), s.opts.Default)
	if err != nil {
		s.fail(c, err)
		return
	}
	chart, err := s.dash.Chart(c.Request.Context(), c.Param("id"), sel)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(c, "Chart computed", chart))
}

func (s *Server) chartSVG(c *gin.Context) {
	q := c.Request.URL.Query()
	sel, err := parseSelection(q, s.opts.Default)
	if err != nil {
		s.fail(c, err)
		return
	}
	width, err := sizeParam(q, "width", s.opts.Width)
	if err != nil {
		s.fail(c, err)
		return
	}
	height, err := sizeParam(q, "height", s.opts.Height)
	if err != nil {
		s.fail(c, err)
		return
	}
	chart, err := s.dash.Chart(c.Request.Context(), c.Param("id"), sel)
	if err != nil {
		s.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := dashboard.WriteSVG(&buf, chart, width, height); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}
