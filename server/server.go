// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the locator and an in-memory canvas over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/canvas"
	"github.com/fralocator/fralocator/locator"
	"github.com/fralocator/fralocator/spatial"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server is a headless locator host.
type Server struct {
	host     *canvas.Host
	registry *locator.Registry
	plugin   *locator.Plugin
	dock     *locator.Dock
	metrics  *metrics
	log      *logrus.Entry

	// Clicks are handled one at a time, like on a single UI thread.
	clickMu sync.Mutex
}

// New returns a server driving host. plugin must be registered in registry.
func New(host *canvas.Host, registry *locator.Registry, plugin *locator.Plugin) *Server {
	return &Server{
		host:     host,
		registry: registry,
		plugin:   plugin,
		dock:     plugin.Run(),
		metrics:  newMetrics(),
		log:      logrus.WithField("filter", "Server"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.middleware())

	r.GET("/api/search", s.search)
	r.POST("/api/activate", s.activate)
	r.GET("/api/view", s.view)
	r.PUT("/api/view/crs", s.setCRS)
	r.PUT("/api/tool", s.setTool)
	r.POST("/api/click", s.click)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))

	return r
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		s.log.Infof("Listening on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Request")
	}
}

type problemLine struct {
	Problem string `json:"problem"`
}

// ndjsonFeedback writes each event as one JSON line and flushes it.
type ndjsonFeedback struct {
	w       gin.ResponseWriter
	enc     *json.Encoder
	metrics *metrics
	show    func(string)
	log     *logrus.Entry
}

func (f *ndjsonFeedback) write(v any) {
	if err := f.enc.Encode(v); err != nil {
		f.log.WithError(err).Debug("Client went away")

		return
	}

	f.w.Flush()
}

func (f *ndjsonFeedback) ResultFetched(result locator.Result) {
	f.metrics.results.WithLabelValues("search").Inc()
	f.write(result)
}

func (f *ndjsonFeedback) ResultProblem(message string) {
	f.metrics.problems.WithLabelValues("search").Inc()
	f.show(message)
	f.write(problemLine{Problem: message})
}

func (s *Server) search(c *gin.Context) {
	q, ok := c.GetQuery("q")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	s.registry.Dispatch(c.Request.Context(), q, &ndjsonFeedback{
		w:       c.Writer,
		enc:     json.NewEncoder(c.Writer),
		metrics: s.metrics,
		show:    s.plugin.ShowProblem,
		log:     s.log,
	})
}

func (s *Server) activate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	feature, err := adresse.ParseFeature(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	s.plugin.Filter().TriggerResult(locator.Result{
		DisplayString: locator.DisplayString(feature),
		UserData:      feature,
	})

	c.JSON(http.StatusOK, s.host.Canvas.View())
}

func (s *Server) view(c *gin.Context) {
	c.JSON(http.StatusOK, s.host.Canvas.View())
}

type crsRequest struct {
	CRS string `json:"crs" binding:"required"`
}

func (s *Server) setCRS(c *gin.Context) {
	var req crsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	crs, err := spatial.LookupCRS(req.CRS)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := s.host.Canvas.SetDestinationCRS(crs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, s.host.Canvas.View())
}

type toolRequest struct {
	Armed *bool `json:"armed" binding:"required"`
}

func (s *Server) setTool(c *gin.Context) {
	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	s.dock.SetClickMode(*req.Armed)

	c.JSON(http.StatusOK, gin.H{"mode": s.dock.Mode().String()})
}

type clickRequest struct {
	PX *float64 `json:"px" binding:"required"`
	PY *float64 `json:"py" binding:"required"`
}

func (s *Server) click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	s.clickMu.Lock()
	defer s.clickMu.Unlock()

	tool := s.dock.Tool()
	if s.dock.Mode() != locator.Armed || s.host.Canvas.MapTool() != tool {
		s.host.Canvas.Release(c.Request.Context(), *req.PX, *req.PY)
		c.Status(http.StatusNoContent)

		return
	}

	if err := tool.Reverse(c.Request.Context(), *req.PX, *req.PY); err != nil {
		s.metrics.problems.WithLabelValues("reverse").Inc()
		c.JSON(http.StatusBadGateway, problemLine{Problem: err.Error()})

		return
	}

	s.metrics.results.WithLabelValues("reverse").Inc()
	c.JSON(http.StatusOK, gin.H{"address": s.dock.Address()})
}
