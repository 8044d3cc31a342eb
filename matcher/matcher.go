package matcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/core"
)

const (
	// DefaultThreshold is the exclusive lower bound on similarity for a match.
	DefaultThreshold = 0.85

	// DefaultTopK is how many ranked matches the analysis flow keeps.
	DefaultTopK = 7
)

// Match is an opinion whose similarity to the topic exceeded the threshold.
type Match struct {
	// Text is the opinion text as given.
	Text string
	// Score is the cosine similarity between topic and opinion vectors.
	Score float64
	// Index is the opinion's position in the input slice.
	Index int
}

// Matcher finds opinions related to a topic by embedding similarity.
type Matcher struct {
	embedder ai.Embedder
	monitor  MatchMonitor
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMonitor installs hooks observing every scoring pass.
func WithMonitor(monitor MatchMonitor) Option {
	return func(m *Matcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// NewMatcher creates a matcher using embedder for both topic and opinions.
func NewMatcher(embedder ai.Embedder, opts ...Option) (*Matcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Matcher{
		embedder: embedder,
		monitor:  &noopMonitor{},
		logger:   slog.Default().With("component", "matcher"),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// FindRelated returns every opinion whose cosine similarity to topicText is
// strictly greater than threshold, in original index order. Ranking and
// truncation are left to the caller (see Rank).
//
// An empty opinion list returns an empty result without calling the embedder.
// Embedding failures are wrapped with core.ErrRemoteService.
func (m *Matcher) FindRelated(ctx context.Context, topicText string, opinionTexts []string, threshold float64) ([]Match, error) {
	if len(opinionTexts) == 0 {
		return []Match{}, nil
	}

	m.monitor.Start(topicText, len(opinionTexts))

	topicVector, err := m.embedder.EmbedText(ctx, topicText)
	if err != nil {
		m.logger.Error("error generating embedding for topic", "err", err)
		return nil, fmt.Errorf("%w: embed topic: %w", core.ErrRemoteService, err)
	}

	opinionVectors, err := m.embedder.EmbedTexts(ctx, opinionTexts)
	if err != nil {
		m.logger.Error("error generating embeddings for opinions", "count", len(opinionTexts), "err", err)
		return nil, fmt.Errorf("%w: embed opinions: %w", core.ErrRemoteService, err)
	}
	if len(opinionVectors) != len(opinionTexts) {
		return nil, fmt.Errorf("%w: %w: got %d vectors for %d texts",
			core.ErrRemoteService, ErrVectorCountMismatch, len(opinionVectors), len(opinionTexts))
	}

	scores := make([]float64, len(opinionVectors))
	for i, v := range opinionVectors {
		scores[i] = CosineSimilarity(topicVector, v)
	}

	matches := m.filter(opinionTexts, scores, threshold)
	m.logger.Debug("matched opinions", "candidates", len(opinionTexts), "matches", len(matches), "threshold", threshold)
	m.monitor.Finish(matches)

	return matches, nil
}

// filter keeps indices whose score is strictly above threshold.
func (m *Matcher) filter(texts []string, scores []float64, threshold float64) []Match {
	matches := make([]Match, 0)
	for i, score := range scores {
		kept := score > threshold
		m.monitor.Scored(i, score, kept)
		if kept {
			matches = append(matches, Match{Text: texts[i], Score: score, Index: i})
		}
	}
	return matches
}
