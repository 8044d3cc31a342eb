// Package metrics exposes prometheus collectors for analysis, matching,
// remote model calls and store mutations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/core"
	"github.com/poiesic/digitalpulse/matcher"
)

const namespace = "digitalpulse"

// Outcome label values.
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeNoOpinions = "no_opinions"
	OutcomeNoMatches  = "no_matches"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	classifications *prometheus.CounterVec
	remoteCalls     *prometheus.CounterVec
	remoteLatency   *prometheus.HistogramVec
	matchScores     prometheus.Histogram
	matchesKept     prometheus.Histogram
	mutations       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, along with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis runs by outcome.",
		}, []string{"outcome"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Opinions classified, by category.",
		}, []string{"category"}),
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Embedding and generation calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_seconds",
			Help:      "Latency of embedding and generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"op"}),
		matchScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_similarity",
			Help:      "Cosine similarity of every scored opinion.",
			Buckets:   prometheus.LinearBuckets(-1, 0.1, 21),
		}),
		matchesKept: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "matches_per_run",
			Help:      "Opinions above the threshold per matching pass.",
			Buckets:   []float64{0, 1, 2, 3, 5, 7, 10, 20, 50},
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Record store writes by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.analyses,
		m.classifications,
		m.remoteCalls,
		m.remoteLatency,
		m.matchScores,
		m.matchesKept,
		m.mutations,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AnalysisMonitor returns hooks for analysis.WithMonitor.
func (m *Metrics) AnalysisMonitor() analysis.Monitor {
	return &analysisMonitor{m: m}
}

// MatchMonitor returns hooks for matcher.WithMonitor.
func (m *Metrics) MatchMonitor() matcher.MatchMonitor {
	return &matchMonitor{m: m}
}

func (m *Metrics) observeCall(op string, elapsed time.Duration, err error) {
	m.remoteCalls.WithLabelValues(op, outcome(err)).Inc()
	m.remoteLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) observeMutation(kind string, err error) {
	m.mutations.WithLabelValues(kind, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

type analysisMonitor struct {
	m *Metrics
}

var _ analysis.Monitor = (*analysisMonitor)(nil)

func (a *analysisMonitor) Start(_ string)                   {}
func (a *analysisMonitor) Matched(_ int, _ []matcher.Match) {}
func (a *analysisMonitor) Summarized(_ string)              {}

func (a *analysisMonitor) Classified(_ int, category core.Category) {
	a.m.classifications.WithLabelValues(string(category)).Inc()
}

func (a *analysisMonitor) RemoteCall(op string, elapsed time.Duration, err error) {
	a.m.observeCall(op, elapsed, err)
}

func (a *analysisMonitor) Finish(report *analysis.Report, err error) {
	label := OutcomeOK
	switch {
	case err != nil:
		label = OutcomeError
	case report.NoOpinions:
		label = OutcomeNoOpinions
	case report.NoMatches:
		label = OutcomeNoMatches
	}
	a.m.analyses.WithLabelValues(label).Inc()
}

type matchMonitor struct {
	m *Metrics
}

var _ matcher.MatchMonitor = (*matchMonitor)(nil)

func (mm *matchMonitor) Start(_ string, _ int) {}

func (mm *matchMonitor) Scored(_ int, score float64, _ bool) {
	mm.m.matchScores.Observe(score)
}

func (mm *matchMonitor) Finish(matches []matcher.Match) {
	mm.m.matchesKept.Observe(float64(len(matches)))
}
