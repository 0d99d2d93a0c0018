// Package metrics defines the Prometheus metrics for marketly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketly"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Unified search metrics.
var (
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of unified searches in seconds, cache hits included.",
		Buckets:   prometheus.DefBuckets,
	})

	SearchCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_hits_total",
		Help:      "Total unified searches served from the TTL cache.",
	})

	SearchCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_misses_total",
		Help:      "Total unified searches that fanned out to connectors.",
	})
)

// Connector metrics, labeled by source.
var (
	ConnectorSearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "connector_search_duration_seconds",
		Help:      "Duration of a single connector search in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	ConnectorListingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connector_listings_total",
		Help:      "Total listings returned by each connector.",
	}, []string{"source"})

	ConnectorFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connector_failures_total",
		Help:      "Total connector calls degraded to empty results.",
	}, []string{"source", "reason"})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay Browse API calls.",
	})

	EbayTokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_token_refreshes_total",
		Help:      "Total eBay OAuth token refreshes.",
	})
)
