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


// Package annotate links a topic's related opinions to it and stores their
// rhetorical category.
//
// Unlike an analysis, annotation writes as it goes: each classified opinion is
// updated immediately, so a run that fails partway leaves earlier opinions
// annotated. Re-running is safe; it overwrites the same fields.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/matcher"
	"github.com/poiesic/digitalpulse/pacing"
	"github.com/poiesic/digitalpulse/storage"
)

var (
	// ErrStoreRequired is returned when a record store is not provided.
	ErrStoreRequired = errors.New("record store required")

	// ErrFinderRequired is returned when a related-opinion finder is not provided.
	ErrFinderRequired = errors.New("related opinion finder required")

	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("classifier required")
)

// Config holds configuration for an annotation run.
type Config struct {
	// Threshold is the exclusive similarity cutoff.
	Threshold float64

	// Limit caps how many ranked matches are classified. 0 means all of them.
	Limit int

	// ReportInterval is how often to report progress (number of opinions).
	ReportInterval int
}

// DefaultConfig returns a Config with the analysis defaults.
func DefaultConfig() *Config {
	return &Config{
		Threshold:      matcher.DefaultThreshold,
		Limit:          0,
		ReportInterval: 1,
	}
}

// Summary describes a completed or partial run.
type Summary struct {
	Considered int                   `json:"considered"`
	Matched    int                   `json:"matched"`
	Updated    int                   `json:"updated"`
	Categories map[core.Category]int `json:"categories"`
}

// Annotator classifies and links opinions related to a stored topic.
type Annotator struct {
	store      storage.RecordStore
	finder     analysis.RelatedFinder
	classifier analysis.Classifier
	pacer      *pacing.Pacer
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithPacer sets the pacer spacing classification calls.
func WithPacer(p *pacing.Pacer) Option {
	return func(a *Annotator) {
		if p != nil {
			a.pacer = p
		}
	}
}

// WithProgress writes progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(a *Annotator) { a.progress = w }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnnotator creates an annotator. A nil config uses DefaultConfig.
func NewAnnotator(store storage.RecordStore, finder analysis.RelatedFinder, classifier analysis.Classifier, config *Config, opts ...Option) (*Annotator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if finder == nil {
		return nil, ErrFinderRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", core.ErrValidation)
	}

	a := &Annotator{
		store:      store,
		finder:     finder,
		classifier: classifier,
		pacer:      pacing.New(pacing.DefaultInterval),
		config:     config,
		progress:   io.Discard,
		logger:     slog.Default().With("component", "annotator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run annotates every opinion related to the topic with the given key.
// On failure the returned summary counts what was written before the error.
func (a *Annotator) Run(ctx context.Context, topicKey string) (*Summary, error) {
	if err := core.ValidateTopicKey(topicKey); err != nil {
		return nil, err
	}
	topic, err := a.store.GetTopicByKey(ctx, topicKey)
	if err != nil {
		return nil, err
	}

	opinions, err := a.store.Opinions(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Considered: len(opinions), Categories: make(map[core.Category]int)}
	if len(opinions) == 0 {
		return summary, nil
	}

	texts := make([]string, len(opinions))
	for i, o := range opinions {
		texts[i] = o.Text
	}
	matches, err := a.finder.FindRelated(ctx, topic.Text, texts, a.config.Threshold)
	if err != nil {
		return summary, err
	}
	ranked := matcher.Rank(matches, a.config.Limit)
	summary.Matched = len(ranked)

	a.logger.Info("annotating opinions", "topic", topicKey, "considered", len(opinions), "matched", len(ranked))

	progress := newClassifyProgress(a.progress, len(ranked), a.config.ReportInterval)
	defer progress.finish()

	for _, m := range ranked {
		opinion := opinions[m.Index]

		var category core.Category
		err := a.pacer.Do(ctx, func() error {
			var err error
			category, err = a.classifier.Classify(ctx, m.Text)
			return err
		})
		if err != nil {
			return summary, err
		}

		ok, err := a.store.UpdateOpinionMetadata(ctx, opinion.ID, topicKey, string(category), core.DefaultEffectiveness)
		if err != nil {
			return summary, err
		}
		if !ok {
			a.logger.Warn("opinion disappeared during annotation", "id", opinion.ID)
			continue
		}
		summary.Updated++
		summary.Categories[category]++
		progress.classified(category)
	}

	a.logger.Info("annotation finished", "topic", topicKey, "updated", summary.Updated, "elapsed", progress.elapsed())
	return summary, nil
}
