// Package metrics provides Prometheus metrics for the team balancer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bobylevd/team-balancer/app/balance"
)

// Move results.
const (
	MoveApplied = "applied"
	MoveNoop    = "noop"
	MoveFailed  = "failed"
)

// Metrics holds the collectors of the service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	suggestions     prometheus.Counter
	rejected        prometheus.Counter
	moves           *prometheus.CounterVec
	suggestDuration prometheus.Histogram
	gap             *prometheus.HistogramVec
	poolSize        prometheus.Histogram
	sessions        prometheus.Gauge
}

// New registers the collectors on reg under the given namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		suggestions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestion sets generated.",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_rejected_total",
			Help:      "Suggestion requests with fewer competitors than teams.",
		}),
		moves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Manual competitor moves by result.",
		}, []string{"result"}),
		suggestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggest_duration_seconds",
			Help:      "Time spent generating a suggestion set.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		gap: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_gap",
			Help:      "Difference between the strongest and the weakest team.",
			Buckets:   []float64{0, 25, 50, 100, 200, 400, 800},
		}, []string{"strategy"}),
		poolSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pool_size",
			Help:      "Competitors per suggestion request.",
			Buckets:   prometheus.LinearBuckets(2, 4, 8),
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Suggestion sets kept in memory.",
		}),
	}
}

// ObserveSuggest records a generated suggestion set.
func (m *Metrics) ObserveSuggest(took time.Duration, poolSize int, suggestions []balance.Suggestion) {
	if m == nil {
		return
	}
	m.suggestions.Inc()
	m.suggestDuration.Observe(took.Seconds())
	m.poolSize.Observe(float64(poolSize))
	for _, s := range suggestions {
		m.gap.WithLabelValues(s.Strategy.String()).Observe(float64(s.Partition.Gap()))
	}
}

// ObserveRejected records a request that couldn't fill the teams.
func (m *Metrics) ObserveRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

// ObserveMove records the result of a manual move.
func (m *Metrics) ObserveMove(result string) {
	if m == nil {
		return
	}
	m.moves.WithLabelValues(result).Inc()
}

// SetSessions sets the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
