package matcher

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/poiesic/digitalpulse/ai/mock"
	"github.com/poiesic/digitalpulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitAt returns a 2-d unit vector whose cosine with [1, 0] is score.
func unitAt(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

type recordingMonitor struct {
	started    int
	candidates int
	scored     []bool
	finished   []Match
}

func (r *recordingMonitor) Start(_ string, candidates int) {
	r.started++
	r.candidates = candidates
}

func (r *recordingMonitor) Scored(_ int, _ float64, kept bool) {
	r.scored = append(r.scored, kept)
}

func (r *recordingMonitor) Finish(matches []Match) {
	r.finished = matches
}

func TestNewMatcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		m, err := NewMatcher(mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		m, err := NewMatcher(mock.NewMockEmbedder(), WithLogger(nil), WithMonitor(nil))
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("with custom logger", func(t *testing.T) {
		m, err := NewMatcher(mock.NewMockEmbedder(), WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewMatcher(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestFindRelated_UniformsScenario(t *testing.T) {
	topic := "School uniforms should be mandatory"
	opinions := []string{
		"Uniforms reduce bullying",
		"Uniforms cost families money",
		"The cafeteria food is bad",
	}
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		topic:       {1, 0},
		opinions[0]: unitAt(0.91),
		opinions[1]: unitAt(0.88),
		opinions[2]: unitAt(0.12),
	})

	m, err := NewMatcher(embedder)
	require.NoError(t, err)

	matches, err := m.FindRelated(context.Background(), topic, opinions, DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, opinions[0], matches[0].Text)
	assert.InDelta(t, 0.91, matches[0].Score, 1e-6)
	assert.Equal(t, 1, matches[1].Index)
	assert.InDelta(t, 0.88, matches[1].Score, 1e-6)

	// topic embedded alone, opinions in one batch
	assert.Equal(t, []int{1, 3}, embedder.BatchSizes())
}

func TestFindRelated_IndexOrder(t *testing.T) {
	topic := "topic"
	opinions := []string{"low", "high", "mid"}
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		topic:  {1, 0},
		"low":  unitAt(0.86),
		"high": unitAt(0.99),
		"mid":  unitAt(0.93),
	})

	m, err := NewMatcher(embedder)
	require.NoError(t, err)

	matches, err := m.FindRelated(context.Background(), topic, opinions, DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i, match := range matches {
		assert.Equal(t, i, match.Index)
	}

	ranked := Rank(matches, DefaultTopK)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{ranked[0].Text, ranked[1].Text, ranked[2].Text})
}

func TestFindRelated_ThresholdIsExclusive(t *testing.T) {
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		"topic": {1, 0},
		"same":  {1, 0},
		"other": {0, 1},
	})
	m, err := NewMatcher(embedder)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("score equal to threshold is excluded", func(t *testing.T) {
		matches, err := m.FindRelated(ctx, "topic", []string{"same"}, 1.0)
		require.NoError(t, err)
		assert.Empty(t, matches)

		matches, err = m.FindRelated(ctx, "topic", []string{"other"}, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("score just above threshold is included", func(t *testing.T) {
		matches, err := m.FindRelated(ctx, "topic", []string{"same"}, 1.0-1e-9)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 1.0, matches[0].Score)
	})

	t.Run("self similarity is one", func(t *testing.T) {
		v := []float32{0.3, -0.2, 0.9}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})
}

func TestFilter_Boundary(t *testing.T) {
	m, err := NewMatcher(mock.NewMockEmbedder())
	require.NoError(t, err)

	texts := []string{"a", "b", "c"}
	scores := []float64{0.85, 0.85 + 1e-12, 0.85 - 1e-12}

	matches := m.filter(texts, scores, 0.85)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].Text)
	assert.Equal(t, 1, matches[0].Index)
}

func TestFindRelated_EmptyOpinions(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	monitor := &recordingMonitor{}
	m, err := NewMatcher(embedder, WithMonitor(monitor))
	require.NoError(t, err)

	matches, err := m.FindRelated(context.Background(), "anything", nil, DefaultThreshold)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, 0, embedder.CallCount())
	assert.Equal(t, 0, monitor.started)
}

func TestFindRelated_Monitor(t *testing.T) {
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		"topic": {1, 0},
		"yes":   {1, 0},
		"no":    {0, 1},
	})
	monitor := &recordingMonitor{}
	m, err := NewMatcher(embedder, WithMonitor(monitor))
	require.NoError(t, err)

	matches, err := m.FindRelated(context.Background(), "topic", []string{"yes", "no"}, DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, 1, monitor.started)
	assert.Equal(t, 2, monitor.candidates)
	assert.Equal(t, []bool{true, false}, monitor.scored)
	assert.Equal(t, matches, monitor.finished)
}

func TestFindRelated_EmbedderErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("topic embedding fails", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return nil, boom
		}
		m, err := NewMatcher(embedder)
		require.NoError(t, err)

		_, err = m.FindRelated(ctx, "topic", []string{"a"}, DefaultThreshold)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrRemoteService)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("batch embedding fails", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
			return nil, boom
		}
		m, err := NewMatcher(embedder)
		require.NoError(t, err)

		_, err = m.FindRelated(ctx, "topic", []string{"a"}, DefaultThreshold)
		assert.ErrorIs(t, err, core.ErrRemoteService)
	})

	t.Run("wrong vector count", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		}
		m, err := NewMatcher(embedder)
		require.NoError(t, err)

		_, err = m.FindRelated(ctx, "topic", []string{"a", "b"}, DefaultThreshold)
		assert.ErrorIs(t, err, core.ErrRemoteService)
		assert.ErrorIs(t, err, ErrVectorCountMismatch)
	})
}
