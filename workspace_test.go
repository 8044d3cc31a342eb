package digitalpulse

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/digitalpulse/ai"
	"github.com/poiesic/digitalpulse/ai/anthropic"
	"github.com/poiesic/digitalpulse/ai/local"
	"github.com/poiesic/digitalpulse/ai/mock"
	"github.com/poiesic/digitalpulse/config"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/storage/badger"
	"github.com/poiesic/digitalpulse/storage/flatfile"
)

const topicText = "Should schools require uniforms?"

func unitAt(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = backend
	cfg.Store.Path = filepath.Join(t.TempDir(), "data")
	cfg.AI.EmbeddingProvider = ai.ProviderLocal
	cfg.Analysis.Pace = 0
	return cfg
}

func TestOpen_Flatfile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFlatfile)

	ws, err := Open(ctx, cfg, WithGenerator(mock.NewMockGenerator()))
	require.NoError(t, err)

	key, err := ws.Store().AddTopic(ctx, topicText, "", "")
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	_, err = os.Stat(filepath.Join(cfg.Store.Path, flatfile.TopicsFile))
	require.NoError(t, err)

	// a second workspace sees the persisted topic
	ws, err = Open(ctx, cfg, WithGenerator(mock.NewMockGenerator()))
	require.NoError(t, err)
	defer ws.Close()
	topic, err := ws.Store().GetTopicByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, topicText, topic.Text)
}

func TestOpen_Badger(t *testing.T) {
	ctx := context.Background()
	ws, err := Open(ctx, testConfig(t, config.BackendBadger), WithGenerator(mock.NewMockGenerator()))
	require.NoError(t, err)
	defer ws.Close()

	_, err = ws.Store().AddOpinion(ctx, "Uniforms reduce bullying.", "", "", "")
	require.NoError(t, err)
	stats, err := ws.Analyzer().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Opinions)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t, "sqlite")
	_, err := Open(ctx, cfg)
	assert.ErrorContains(t, err, "unsupported store backend")

	cfg = testConfig(t, config.BackendFlatfile)
	cfg.AI.GeneratorProvider = ai.ProviderAnthropic
	_, err = Open(ctx, cfg)
	assert.ErrorIs(t, err, core.ErrMissingCredential)
}

func TestOpen_InjectedStoreIsNotClosed(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ws, err := Open(context.Background(), nil,
		WithStore(store),
		WithEmbedder(mock.NewMockEmbedder()),
		WithGenerator(mock.NewMockGenerator()),
	)
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	_, err = store.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, config.Default(), ws.Config())
}

func TestWorkspace_AnalyzeAndMetrics(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		topicText:                   {1, 0},
		"Uniforms reduce bullying.": unitAt(0.93),
		"I had pizza for lunch.":    unitAt(0.10),
	})
	generator := mock.NewScriptedGenerator("Evidence", "Uniforms are broadly supported.")

	ws, err := Open(ctx, testConfig(t, config.BackendBadger), WithEmbedder(embedder), WithGenerator(generator))
	require.NoError(t, err)
	defer ws.Close()

	for _, text := range []string{"Uniforms reduce bullying.", "I had pizza for lunch."} {
		_, err := ws.Store().AddOpinion(ctx, text, "", "", "")
		require.NoError(t, err)
	}

	report, err := ws.Analyzer().AnalyzeText(ctx, topicText)
	require.NoError(t, err)
	require.Len(t, report.Related, 1)
	assert.Equal(t, core.Evidence, report.Related[0].Category)
	assert.Equal(t, "Uniforms are broadly supported.", report.Conclusion)

	rec := httptest.NewRecorder()
	ws.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `digitalpulse_analyses_total{outcome="ok"} 1`)
	assert.Contains(t, body, `digitalpulse_classifications_total{category="Evidence"} 1`)
	assert.Contains(t, body, `digitalpulse_store_mutations_total{kind="add_opinion",outcome="ok"} 2`)
}

func TestWorkspace_Annotator(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewFixedEmbedder(map[string][]float32{
		topicText:                   {1, 0},
		"Uniforms reduce bullying.": unitAt(0.93),
	})
	ws, err := Open(ctx, testConfig(t, config.BackendBadger),
		WithEmbedder(embedder),
		WithGenerator(mock.NewScriptedGenerator("Rebuttal")),
	)
	require.NoError(t, err)
	defer ws.Close()

	id, err := ws.Store().AddOpinion(ctx, "Uniforms reduce bullying.", "", "", "")
	require.NoError(t, err)
	key, err := ws.Store().AddTopic(ctx, topicText, "", "")
	require.NoError(t, err)

	annotator, err := ws.NewAnnotator(nil)
	require.NoError(t, err)
	summary, err := annotator.Run(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	linked, err := ws.Store().GetOpinionsByTopicID(ctx, key)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, id, linked[0].ID)
	assert.Equal(t, core.Rebuttal, linked[0].Category())
}

func TestWorkspace_NewServer(t *testing.T) {
	ws, err := Open(context.Background(), testConfig(t, config.BackendBadger), WithGenerator(mock.NewMockGenerator()))
	require.NoError(t, err)
	defer ws.Close()

	s, err := ws.NewServer()
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestProviderSelection(t *testing.T) {
	ctx := context.Background()

	cfg := ai.NewConfig(ai.WithEmbeddingProvider(ai.ProviderLocal), ai.WithEmbeddingDimensions(64))
	embedder, err := NewEmbedder(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &local.Embedder{}, embedder)

	cfg = ai.NewConfig(ai.WithGeneratorProvider(ai.ProviderAnthropic), ai.WithAPIKey("test-key"))
	generator, err := NewGenerator(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Generator{}, generator)

	cfg = ai.NewConfig(ai.WithEmbeddingProvider("word2vec"))
	_, err = NewEmbedder(ctx, cfg)
	assert.Error(t, err)
}
