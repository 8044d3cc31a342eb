// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package server exposes the record store and the analyzer over HTTP.
//
// Requests that touch the store or the model services are serialized, so
// concurrent clients observe the same one-at-a-time behavior as the CLI.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/annotate"
	"github.com/poiesic/digitalpulse/storage"
)

var (
	// ErrStoreRequired is returned when a record store is not provided.
	ErrStoreRequired = errors.New("record store required")

	// ErrAnalyzerRequired is returned when an analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")
)

// Server serves the JSON API.
type Server struct {
	store     storage.RecordStore
	analyzer  *analysis.Analyzer
	annotator *annotate.Annotator
	metrics   http.Handler
	exec      *executor
	engine    *gin.Engine
	origins   []string
	timeouts  Timeouts
	logger    *slog.Logger
}

// Timeouts bound the lifetime of HTTP requests and of shutdown.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAnnotator enables POST /topics/:key/annotate.
func WithAnnotator(a *annotate.Annotator) Option {
	return func(s *Server) { s.annotator = a }
}

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithCORSOrigins sets the allowed origins. "*" allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithTimeouts sets the HTTP server timeouts. Zero values keep the defaults.
func WithTimeouts(t Timeouts) Option {
	return func(s *Server) {
		if t.Read > 0 {
			s.timeouts.Read = t.Read
		}
		if t.Write > 0 {
			s.timeouts.Write = t.Write
		}
		if t.Shutdown > 0 {
			s.timeouts.Shutdown = t.Shutdown
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the router. Close releases the worker behind it.
func New(store storage.RecordStore, analyzer *analysis.Analyzer, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	s := &Server{
		store:    store,
		analyzer: analyzer,
		origins:  []string{"*"},
		timeouts: Timeouts{Read: 10 * time.Second, Write: 5 * time.Minute, Shutdown: 10 * time.Second},
		logger:   slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	exec, err := newExecutor()
	if err != nil {
		return nil, err
	}
	s.exec = exec
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), cors.New(s.corsConfig()))

	r.GET("/health", s.health)
	r.GET("/stats", s.stats)

	r.GET("/topics", s.listTopics)
	r.POST("/topics", s.addTopic)
	r.GET("/topics/:key", s.getTopic)
	r.POST("/topics/:key/conclusions", s.addConclusion)
	r.POST("/topics/:key/analyze", s.analyzeTopic)
	r.POST("/topics/:key/annotate", s.annotateTopic)

	r.POST("/analyze", s.analyzeText)
	r.POST("/opinions", s.addOpinion)
	r.PATCH("/opinions/:id", s.updateOpinion)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range s.origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.origins
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.timeouts.Read,
		WriteTimeout: s.timeouts.Write,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the request executor.
func (s *Server) Close() error {
	s.exec.release()
	return nil
}
