package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	scoring         *prometheus.CounterVec
	historyFailures *prometheus.CounterVec
	historySize     prometheus.Gauge
}

// New creates the counters and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scoring: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astrokit",
			Name:      "scoring_total",
			Help:      "Scoring requests by result source and status.",
		}, []string{"source", "status"}),
		historyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astrokit",
			Name:      "history_failures_total",
			Help:      "Swallowed history persistence failures by operation.",
		}, []string{"op"}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "astrokit",
			Name:      "history_records",
			Help:      "Records in the history slot after the last write.",
		}),
	}
	reg.MustRegister(m.scoring, m.historyFailures, m.historySize)
	return m
}

// ScoringCounter exposes the scoring counter vector
func (m *Metrics) ScoringCounter() *prometheus.CounterVec {
	return m.scoring
}

// HistoryFailures exposes the persistence failure counter vector
func (m *Metrics) HistoryFailures() *prometheus.CounterVec {
	return m.historyFailures
}

// ObserveScore counts one scoring outcome
func (m *Metrics) ObserveScore(source, status string) {
	if m == nil {
		return
	}
	m.scoring.WithLabelValues(source, status).Inc()
}

// HistoryFailure counts one swallowed persistence failure
func (m *Metrics) HistoryFailure(op string) {
	if m == nil {
		return
	}
	m.historyFailures.WithLabelValues(op).Inc()
}

// HistorySize records the collection length after a write
func (m *Metrics) HistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}
