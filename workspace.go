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


// Package digitalpulse wires a record store, the model services and the
// analysis components into one Workspace.
package digitalpulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/annotate"
	"github.com/poiesic/digitalpulse/config"
	"github.com/poiesic/digitalpulse/matcher"
	"github.com/poiesic/digitalpulse/metrics"
	"github.com/poiesic/digitalpulse/pacing"
	"github.com/poiesic/digitalpulse/server"
	"github.com/poiesic/digitalpulse/storage"
	"github.com/poiesic/digitalpulse/storage/badger"
	"github.com/poiesic/digitalpulse/storage/flatfile"
)

type Workspace struct {
	config    *config.Config
	store     storage.RecordStore
	ownsStore bool
	provider  ai.AIProvider
	client    *ai.Client
	matcher   *matcher.Matcher
	pacer     *pacing.Pacer
	analyzer  *analysis.Analyzer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Workspace.
type Option func(*options)

type options struct {
	store     storage.RecordStore
	embedder  ai.Embedder
	generator ai.Generator
	logger    *slog.Logger
}

// WithStore uses store instead of opening the configured one. The caller
// keeps ownership and must close it.
func WithStore(store storage.RecordStore) Option {
	return func(o *options) { o.store = store }
}

// WithEmbedder uses embedder instead of the configured provider.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *options) { o.embedder = embedder }
}

// WithGenerator uses generator instead of the configured provider.
func WithGenerator(generator ai.Generator) Option {
	return func(o *options) { o.generator = generator }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Open builds a Workspace from cfg. A nil cfg uses config.Default().
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Workspace, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	w := &Workspace{
		config:  cfg,
		metrics: metrics.New(),
		pacer:   pacing.New(cfg.Analysis.Pace),
		logger:  o.logger.With("component", "workspace"),
	}

	raw := o.store
	if raw == nil {
		var err error
		raw, err = OpenStore(cfg.Store, o.logger)
		if err != nil {
			return nil, err
		}
		w.ownsStore = true
	}
	w.store = metrics.InstrumentStore(raw, w.metrics)

	aiConfig := cfg.AI.Provider()
	embedder := o.embedder
	if embedder == nil {
		var err error
		if embedder, err = NewEmbedder(ctx, aiConfig); err != nil {
			w.closeStore()
			return nil, fmt.Errorf("embedder: %w", err)
		}
	}
	generator := o.generator
	if generator == nil {
		var err error
		if generator, err = NewGenerator(ctx, aiConfig); err != nil {
			w.closeStore()
			return nil, fmt.Errorf("generator: %w", err)
		}
	}

	if err := w.wire(embedder, generator, o.logger); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Workspace) wire(embedder ai.Embedder, generator ai.Generator, logger *slog.Logger) error {
	provider, err := ai.NewProvider(embedder, generator)
	if err != nil {
		return err
	}
	w.provider = provider

	if w.client, err = ai.NewClient(generator, ai.WithClientLogger(logger.With("component", "ai-client"))); err != nil {
		return err
	}

	w.matcher, err = matcher.NewMatcher(embedder,
		matcher.WithMonitor(w.metrics.MatchMonitor()),
		matcher.WithLogger(logger.With("component", "matcher")),
	)
	if err != nil {
		return err
	}

	w.analyzer, err = analysis.NewAnalyzer(w.store, w.matcher, w.client,
		analysis.WithThreshold(w.config.Analysis.Threshold),
		analysis.WithTopK(w.config.Analysis.TopK),
		analysis.WithPacer(w.pacer),
		analysis.WithMonitor(w.metrics.AnalysisMonitor()),
		analysis.WithLogger(logger.With("component", "analyzer")),
	)
	return err
}

// OpenStore opens the backend named by cfg.Backend.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (storage.RecordStore, error) {
	var (
		store storage.RecordStore
		err   error
	)
	switch cfg.Backend {
	case config.BackendFlatfile:
		store, err = flatfile.Open(cfg.Path, flatfile.WithLogger(logger.With("component", "flatfile")))
	case config.BackendBadger:
		store, err = badger.Open(cfg.Path, badger.WithLogger(logger.With("component", "badger")))
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Store returns the instrumented record store.
func (w *Workspace) Store() storage.RecordStore {
	return w.store
}

// Matcher returns the relevance matcher on the workspace embedder.
func (w *Workspace) Matcher() *matcher.Matcher {
	return w.matcher
}

func (w *Workspace) Analyzer() *analysis.Analyzer {
	return w.analyzer
}

func (w *Workspace) Metrics() *metrics.Metrics {
	return w.metrics
}

func (w *Workspace) Config() *config.Config {
	return w.config
}

// NewAnnotator creates an annotator sharing the workspace pacer, so annotation
// and analysis calls never run closer together than the configured pace.
func (w *Workspace) NewAnnotator(cfg *annotate.Config, opts ...annotate.Option) (*annotate.Annotator, error) {
	if cfg == nil {
		cfg = annotate.DefaultConfig()
		cfg.Threshold = w.config.Analysis.Threshold
	}
	opts = append([]annotate.Option{annotate.WithPacer(w.pacer), annotate.WithLogger(w.logger.With("component", "annotator"))}, opts...)
	return annotate.NewAnnotator(w.store, w.matcher, w.client, cfg, opts...)
}

// NewServer creates an HTTP server over the workspace with annotation and
// metrics enabled.
func (w *Workspace) NewServer(opts ...server.Option) (*server.Server, error) {
	annotator, err := w.NewAnnotator(nil)
	if err != nil {
		return nil, err
	}
	sc := w.config.Server
	opts = append([]server.Option{
		server.WithAnnotator(annotator),
		server.WithMetrics(w.metrics.Handler()),
		server.WithCORSOrigins(sc.CORSOrigins),
		server.WithTimeouts(server.Timeouts{Read: sc.ReadTimeout, Write: sc.WriteTimeout, Shutdown: sc.ShutdownTimeout}),
		server.WithLogger(w.logger.With("component", "server")),
	}, opts...)
	return server.New(w.store, w.analyzer, opts...)
}

// Close releases the AI provider and, when the workspace opened it, the store.
func (w *Workspace) Close() error {
	var errs []error
	if w.provider != nil {
		if err := w.provider.Close(); err != nil {
			w.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if err := w.closeStore(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (w *Workspace) closeStore() error {
	if !w.ownsStore {
		return nil
	}
	w.ownsStore = false
	if err := w.store.Close(); err != nil {
		w.logger.Error("error closing record store", "err", err)
		return err
	}
	return nil
}
