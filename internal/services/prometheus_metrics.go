package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics
const (
	MetricUpstreamRequest       = "upstream.request"
	MetricUpstreamLatencyPrefix = "upstream."
	MetricCacheLookup           = "cache.lookup"
	MetricFilterEvaluated       = "filter.evaluated"
	MetricFilterExcluded        = "filter.excluded"
	MetricFilterTransactions    = "filter.transactions"
	MetricCircuitBreakerState   = "circuit_breaker.state"
)

type PrometheusMetrics struct {
	upstreamRequests    *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	filterEvaluations   *prometheus.CounterVec
	filterExclusions    *prometheus.CounterVec
	filterTransactions  *prometheus.GaugeVec
	circuitBreakerState *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the dashboard metrics with the default registry
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWithRegistry registers the dashboard metrics with reg
func NewPrometheusMetricsWithRegistry(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of wallet API requests by resource and outcome",
			},
			[]string{"resource", "status"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Wallet API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Total number of resource cache lookups by result",
			},
			[]string{"resource", "result"},
		),
		filterEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filter_evaluations_total",
				Help: "Total number of filter engine runs",
			},
			[]string{"applied"},
		),
		filterExclusions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filter_exclusions_total",
				Help: "Total number of transactions dropped by the filter engine, by reason",
			},
			[]string{"reason"},
		),
		filterTransactions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "filter_transactions",
				Help: "Transactions kept and excluded by the most recent filter run",
			},
			[]string{"outcome"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricUpstreamRequest:
		m.upstreamRequests.WithLabelValues(tags["resource"], tags["status"]).Inc()
	case MetricCacheLookup:
		m.cacheLookups.WithLabelValues(tags["resource"], tags["result"]).Inc()
	case MetricFilterEvaluated:
		m.filterEvaluations.WithLabelValues(tags["applied"]).Inc()
	case MetricFilterExcluded:
		if reason := tags["reason"]; reason != "" {
			m.filterExclusions.WithLabelValues(reason).Inc()
		}
	}
}

// RecordProcessingTime observes upstream latencies recorded as "upstream.<resource>"
func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if resource, ok := strings.CutPrefix(name, MetricUpstreamLatencyPrefix); ok && resource != "" {
		m.upstreamDuration.WithLabelValues(resource).Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricFilterTransactions:
		if outcome := tags["outcome"]; outcome != "" {
			m.filterTransactions.WithLabelValues(outcome).Set(value)
		}
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
