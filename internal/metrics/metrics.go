package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

const namespace = "eventpulse"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	adapterCalls    *prometheus.CounterVec
	adapterDuration *prometheus.HistogramVec
	searchResults   *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec
	cacheOps        *prometheus.CounterVec
	publishFailures prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		adapterCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_calls_total",
				Help:      "Provider adapter calls by outcome",
			},
			[]string{"provider", "operation", "status"},
		),
		adapterDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "adapter_call_duration_seconds",
				Help:      "Provider adapter call latency",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "operation"},
		),
		searchResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Events returned per search",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"operation"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Provider circuit breaker state (0 closed, 1 half open, 2 open)",
			},
			[]string{"provider"},
		),
		cacheOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Event cache operations",
			},
			[]string{"operation", "result"},
		),
		publishFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discovery_publish_failures_total",
				Help:      "Discovery notifications that could not be published",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveAdapterCall records one provider call
func (m *Metrics) ObserveAdapterCall(provider, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.adapterCalls.WithLabelValues(provider, operation, status).Inc()
	m.adapterDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// ObserveSearchResults records how many events a search returned
func (m *Metrics) ObserveSearchResults(operation string, n int) {
	if m == nil {
		return
	}
	m.searchResults.WithLabelValues(operation).Observe(float64(n))
}

// SetBreakerState exports a breaker transition
func (m *Metrics) SetBreakerState(provider string, state gobreaker.State) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(provider).Set(float64(state))
}

// CacheOp records a cache operation; result is hit, miss, backfill, ok or error
func (m *Metrics) CacheOp(operation, result string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(operation, result).Inc()
}

// PublishFailed counts a dropped discovery notification
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
