package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobylevd/team-balancer/app/balance"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test")

	var pool []balance.Competitor
	for i, name := range []string{"a", "b", "c", "d"} {
		c, err := balance.NewCompetitor(name, name, 1000+100*i, balance.NeutralAnswers)
		require.NoError(t, err)
		pool = append(pool, c)
	}

	m.ObserveSuggest(time.Millisecond, len(pool), balance.Suggest(pool, 2))
	m.ObserveRejected()
	m.ObserveMove(MoveApplied)
	m.ObserveMove(MoveApplied)
	m.ObserveMove(MoveNoop)
	m.SetSessions(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				got[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				got[mf.GetName()] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				got[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.InDelta(t, 1, got["test_suggestions_total"], 0)
	assert.InDelta(t, 1, got["test_suggestions_rejected_total"], 0)
	assert.InDelta(t, 3, got["test_moves_total"], 0)
	assert.InDelta(t, 3, got["test_active_sessions"], 0)
	assert.InDelta(t, 3, got["test_partition_gap"], 0, "one gap per strategy")
	assert.InDelta(t, 1, got["test_pool_size"], 0)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSuggest(time.Second, 2, nil)
		m.ObserveRejected()
		m.ObserveMove(MoveFailed)
		m.SetSessions(1)
	})
}
