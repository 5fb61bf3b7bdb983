// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Package metrics provides Prometheus instrumentation for Melodex:
// similarity request throughput and latency, upstream catalog calls,
// circuit breaker state, and feature cache efficiency.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP surface metrics

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "melodex_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Similarity engine metrics

	SimilarityRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_similarity_requests_total",
			Help: "Total number of similarity requests by strategy, scope, and outcome",
		},
		[]string{"strategy", "scope", "outcome"},
	)

	SimilarityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "melodex_similarity_duration_seconds",
			Help:    "End-to-end similarity request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"strategy", "scope"},
	)

	SimilarityPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "melodex_similarity_pool_size",
			Help:    "Candidate pool size before thresholding and truncation",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"scope"},
	)

	PlaylistTracksAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_playlist_tracks_added_total",
			Help: "Total playlist track additions by outcome",
		},
		[]string{"outcome"}, // "ok", "failed"
	)

	// Upstream catalog metrics

	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_catalog_requests_total",
			Help: "Total upstream catalog API requests",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "melodex_catalog_request_duration_seconds",
			Help:    "Upstream catalog API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_catalog_retries_total",
			Help: "Total upstream request retries by trigger",
		},
		[]string{"endpoint", "reason"}, // "rate_limited", "server_error", "network"
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "melodex_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melodex_circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// Feature cache metrics

	FeatureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melodex_feature_cache_hits_total",
			Help: "Total audio feature cache hits",
		},
	)

	FeatureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melodex_feature_cache_misses_total",
			Help: "Total audio feature cache misses",
		},
	)

	FeatureCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "melodex_feature_cache_entries",
			Help: "Current number of cached feature vectors",
		},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, statusStr).Inc()
}

// ObserveCatalogRequest records one upstream catalog request.
func ObserveCatalogRequest(endpoint string, status int, duration time.Duration) {
	CatalogRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
