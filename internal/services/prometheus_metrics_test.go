package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*PrometheusMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPrometheusMetricsWithRegistry(reg), reg
}

func TestPrometheusMetrics_Counters(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.IncrementCounter(MetricUpstreamRequest, map[string]string{"resource": ResourceWallet, "status": "success"})
	metrics.IncrementCounter(MetricUpstreamRequest, map[string]string{"resource": ResourceWallet, "status": "success"})
	metrics.IncrementCounter(MetricCacheLookup, map[string]string{"resource": ResourceUser, "result": "hit"})
	metrics.IncrementCounter(MetricFilterEvaluated, map[string]string{"applied": "true"})
	metrics.IncrementCounter(MetricFilterExcluded, map[string]string{"reason": "before_start"})

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.upstreamRequests.WithLabelValues(ResourceWallet, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheLookups.WithLabelValues(ResourceUser, "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.filterEvaluations.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.filterExclusions.WithLabelValues("before_start")))
}

func TestPrometheusMetrics_IgnoresUnknownNames(t *testing.T) {
	metrics, reg := newTestMetrics(t)

	metrics.IncrementCounter("something.else", map[string]string{"a": "b"})
	metrics.IncrementCounter(MetricFilterExcluded, map[string]string{})
	metrics.RecordGauge("something.else", 3, nil)
	metrics.RecordProcessingTime("cache.user", time.Second)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPrometheusMetrics_Gauges(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.RecordGauge(MetricFilterTransactions, 7, map[string]string{"outcome": "kept"})
	metrics.RecordGauge(MetricFilterTransactions, 3, map[string]string{"outcome": "kept"})
	metrics.RecordGauge(MetricCircuitBreakerState, float64(StateOpen), map[string]string{"service": "wallet_api"})

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.filterTransactions.WithLabelValues("kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.circuitBreakerState.WithLabelValues("wallet_api")))
}

func TestPrometheusMetrics_UpstreamLatency(t *testing.T) {
	metrics, reg := newTestMetrics(t)

	metrics.RecordProcessingTime(MetricUpstreamLatencyPrefix+ResourceTransactions, 250*time.Millisecond)
	metrics.RecordProcessingTime(MetricUpstreamLatencyPrefix+ResourceTransactions, 2*time.Second)

	count, err := testutil.GatherAndCount(reg, "upstream_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	histogram := families[0].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
	assert.InDelta(t, 2.25, histogram.GetSampleSum(), 1e-9)
}
