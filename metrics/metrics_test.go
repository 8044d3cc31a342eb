package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/matcher"
	"github.com/poiesic/digitalpulse/storage/badger"
)

func TestAnalysisMonitor(t *testing.T) {
	m := New()
	mon := m.AnalysisMonitor()

	mon.Classified(1, core.Claim)
	mon.Classified(2, core.Claim)
	mon.Classified(3, core.Evidence)
	mon.RemoteCall(analysis.OpClassify, 20*time.Millisecond, nil)
	mon.RemoteCall(analysis.OpSummarize, time.Second, errors.New("boom"))

	mon.Finish(&analysis.Report{}, nil)
	mon.Finish(&analysis.Report{NoMatches: true}, nil)
	mon.Finish(&analysis.Report{NoOpinions: true}, nil)
	mon.Finish(nil, errors.New("failed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classifications.WithLabelValues("Claim")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("Evidence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues(analysis.OpClassify, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues(analysis.OpSummarize, OutcomeError)))
	for _, outcome := range []string{OutcomeOK, OutcomeNoMatches, OutcomeNoOpinions, OutcomeError} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues(outcome)), outcome)
	}
}

func TestMatchMonitor(t *testing.T) {
	m := New()
	mon := m.MatchMonitor()

	mon.Start("topic", 3)
	mon.Scored(0, 0.91, true)
	mon.Scored(1, 0.12, false)
	mon.Finish([]matcher.Match{{Text: "a", Score: 0.91}})

	assert.Equal(t, 1, testutil.CollectAndCount(m.matchScores))
	assert.Equal(t, 1, testutil.CollectAndCount(m.matchesKept))
}

func TestInstrumentStore(t *testing.T) {
	ctx := context.Background()
	m := New()
	inner, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer inner.Close()

	store := InstrumentStore(inner, m)

	key, err := store.AddTopic(ctx, "topic", "", "")
	require.NoError(t, err)
	id, err := store.AddOpinion(ctx, "opinion", "", "", "")
	require.NoError(t, err)
	_, err = store.AddOpinion(ctx, "", "", "", "")
	require.Error(t, err)
	_, err = store.AddConclusion(ctx, key, "summary", "", "")
	require.NoError(t, err)
	_, err = store.UpdateOpinionMetadata(ctx, id, key, "Claim", "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_topic", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_opinion", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_opinion", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_conclusion", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("update_opinion", OutcomeOK)))

	// reads pass through untouched
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Stats{Topics: 1, Opinions: 1, Conclusions: 1}, stats)
}

func TestHandler(t *testing.T) {
	m := New()
	m.AnalysisMonitor().Finish(&analysis.Report{}, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `digitalpulse_analyses_total{outcome="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
