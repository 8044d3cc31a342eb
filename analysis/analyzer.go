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


package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/matcher"
	"github.com/poiesic/digitalpulse/pacing"
	"github.com/poiesic/digitalpulse/storage"
)

// RelatedFinder selects opinions related to a topic. *matcher.Matcher implements it.
type RelatedFinder interface {
	FindRelated(ctx context.Context, topicText string, opinionTexts []string, threshold float64) ([]matcher.Match, error)
}

// Classifier labels opinions and writes conclusions. *ai.Client implements it.
type Classifier interface {
	Classify(ctx context.Context, text string) (core.Category, error)
	Summarize(ctx context.Context, topic string, opinions []ai.ClassifiedOpinion) (string, error)
}

// Analyzer runs the analysis flow: match, rank, classify each match, summarize.
type Analyzer struct {
	store      storage.RecordStore
	finder     RelatedFinder
	classifier Classifier
	pacer      *pacing.Pacer
	threshold  float64
	topK       int
	monitor    Monitor
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithThreshold sets the exclusive similarity threshold.
// Default is matcher.DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(a *Analyzer) error {
		if threshold < -1 || threshold > 1 {
			return fmt.Errorf("%w: threshold %v outside [-1, 1]", core.ErrValidation, threshold)
		}
		a.threshold = threshold
		return nil
	}
}

// WithTopK sets how many ranked matches are classified. Default is matcher.DefaultTopK.
func WithTopK(k int) Option {
	return func(a *Analyzer) error {
		if k <= 0 {
			return fmt.Errorf("%w: top k must be positive, got %d", core.ErrValidation, k)
		}
		a.topK = k
		return nil
	}
}

// WithPacer sets the pacer spacing generation calls.
// Default paces at pacing.DefaultInterval.
func WithPacer(p *pacing.Pacer) Option {
	return func(a *Analyzer) error {
		if p != nil {
			a.pacer = p
		}
		return nil
	}
}

// WithMonitor installs analysis hooks.
func WithMonitor(m Monitor) Option {
	return func(a *Analyzer) error {
		if m != nil {
			a.monitor = m
		}
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer wires an analyzer from its collaborators.
func NewAnalyzer(store storage.RecordStore, finder RelatedFinder, classifier Classifier, opts ...Option) (*Analyzer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if finder == nil {
		return nil, ErrFinderRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}

	a := &Analyzer{
		store:      store,
		finder:     finder,
		classifier: classifier,
		pacer:      pacing.New(pacing.DefaultInterval),
		threshold:  matcher.DefaultThreshold,
		topK:       matcher.DefaultTopK,
		monitor:    &noopMonitor{},
		logger:     slog.Default().With("component", "analyzer"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// TopicOption adjusts a single AnalyzeTopic run.
type TopicOption func(*topicRun)

type topicRun struct {
	save bool
}

// SaveConclusion stores the generated conclusion against the topic.
func SaveConclusion() TopicOption {
	return func(r *topicRun) { r.save = true }
}

// AnalyzeText analyzes free text that is not stored as a topic.
func (a *Analyzer) AnalyzeText(ctx context.Context, topicText string) (report *Report, err error) {
	if err := core.ValidateText(topicText); err != nil {
		return nil, err
	}

	a.monitor.Start(topicText)
	defer func() { a.monitor.Finish(report, err) }()

	return a.run(ctx, topicText)
}

// AnalyzeTopic analyzes a stored topic and attaches its stored conclusion, if any.
func (a *Analyzer) AnalyzeTopic(ctx context.Context, key string, opts ...TopicOption) (report *Report, err error) {
	if err := core.ValidateTopicKey(key); err != nil {
		return nil, err
	}
	var cfg topicRun
	for _, opt := range opts {
		opt(&cfg)
	}

	topic, err := a.store.GetTopicByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	a.monitor.Start(topic.Text)
	defer func() { a.monitor.Finish(report, err) }()

	report, err = a.run(ctx, topic.Text)
	if err != nil {
		return nil, err
	}
	report.TopicKey = key

	existing, err := a.store.GetConclusionByTopicID(ctx, key)
	switch {
	case err == nil:
		report.Existing = existing
	case errors.Is(err, core.ErrNotFound):
	default:
		return nil, err
	}

	if cfg.save && report.Conclusion != "" {
		id, err := a.store.AddConclusion(ctx, key, report.Conclusion, "", "")
		if err != nil {
			return nil, err
		}
		report.SavedConclusionID = id
		a.logger.Info("saved conclusion", "topic", key, "id", id)
	}
	return report, nil
}

// Stats reports collection sizes.
func (a *Analyzer) Stats(ctx context.Context) (core.Stats, error) {
	return a.store.Stats(ctx)
}

func (a *Analyzer) run(ctx context.Context, topicText string) (*Report, error) {
	report := &Report{Topic: topicText}

	opinions, err := a.store.Opinions(ctx)
	if err != nil {
		return nil, err
	}
	if len(opinions) == 0 {
		report.NoOpinions = true
		return report, nil
	}

	texts := make([]string, len(opinions))
	for i, o := range opinions {
		texts[i] = o.Text
	}

	start := time.Now()
	matches, err := a.finder.FindRelated(ctx, topicText, texts, a.threshold)
	a.monitor.RemoteCall(OpMatch, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	ranked := matcher.Rank(matches, a.topK)
	a.monitor.Matched(len(opinions), ranked)
	a.logger.Debug("ranked related opinions", "candidates", len(opinions), "matched", len(matches), "kept", len(ranked))

	if len(ranked) == 0 {
		report.NoMatches = true
		return report, nil
	}

	classified := make([]ai.ClassifiedOpinion, 0, len(ranked))
	for i, m := range ranked {
		var category core.Category
		err := a.paced(ctx, OpClassify, func() error {
			var err error
			category, err = a.classifier.Classify(ctx, m.Text)
			return err
		})
		if err != nil {
			a.logger.Error("classification failed, abandoning analysis", "rank", i+1, "err", err)
			return nil, err
		}
		a.monitor.Classified(i+1, category)

		report.Related = append(report.Related, RelatedOpinion{
			Rank:     i + 1,
			ID:       opinions[m.Index].ID,
			Text:     m.Text,
			Score:    m.Score,
			Index:    m.Index,
			Category: category,
		})
		classified = append(classified, ai.ClassifiedOpinion{Text: m.Text, Category: category})
	}

	var conclusion string
	err = a.paced(ctx, OpSummarize, func() error {
		var err error
		conclusion, err = a.classifier.Summarize(ctx, topicText, classified)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.monitor.Summarized(conclusion)
	report.Conclusion = conclusion

	return report, nil
}

// paced runs one generation call behind the pacer and reports it to the monitor.
func (a *Analyzer) paced(ctx context.Context, op string, fn func() error) error {
	return a.pacer.Do(ctx, func() error {
		start := time.Now()
		err := fn()
		a.monitor.RemoteCall(op, time.Since(start), err)
		return err
	})
}
