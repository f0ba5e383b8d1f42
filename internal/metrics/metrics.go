// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package metrics declares Atelier's Prometheus collectors. All collectors
// register with the default registry at init and are exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP surface
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_http_requests_total",
			Help: "Total HTTP requests served by the storefront",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atelier_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atelier_http_active_requests",
			Help: "Requests currently being served",
		},
	)

	// Upstream recommendation API
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atelier_upstream_request_duration_seconds",
			Help:    "Latency of calls to the recommendation API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"endpoint", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atelier_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_circuit_breaker_requests_total",
			Help: "Requests passed through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Storefront
	RecommendationSubmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_recommendation_submits_total",
			Help: "Prompt submissions by outcome (success, failure, stale, blank)",
		},
		[]string{"outcome"},
	)

	ImageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atelier_image_fallbacks_total",
			Help: "Products rendered with the placeholder image",
		},
		[]string{"reason"}, // malformed, empty
	)

	AnalyticsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_analytics_cache_hits_total",
			Help: "Analytics page loads served from cache",
		},
	)

	AnalyticsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_analytics_cache_misses_total",
			Help: "Analytics page loads that called the upstream",
		},
	)

	// Sessions
	SessionUpdateConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_session_update_conflicts_total",
			Help: "Session updates retried after a concurrent write",
		},
	)

	SessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atelier_sessions_swept_total",
			Help: "Expired sessions removed by the sweeper",
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamCall records one call to the recommendation API.
func RecordUpstreamCall(endpoint string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestDuration.WithLabelValues(endpoint, outcome).Observe(duration.Seconds())
}
