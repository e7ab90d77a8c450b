package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Unlock ledger metrics
var (
	UnlocksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unlocks_completed_total",
			Help: "Total number of completed recipe unlocks",
		},
	)

	UnlocksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unlocks_failed_total",
			Help: "Total number of failed recipe unlocks by reason",
		},
		[]string{"reason"},
	)

	RevenueCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revenue_collected_minor_units_total",
			Help: "Total amount paid across completed unlocks, in minor currency units",
		},
	)

	AuthorizerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authorizer_request_duration_seconds",
			Help:    "External payment authorizer call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Interaction and recommendation metrics
var (
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interaction events recorded by type",
		},
		[]string{"type"},
	)

	RankRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_requests_total",
			Help: "Total number of recommendation ranking requests",
		},
	)

	ScoreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_cache_hits_total",
			Help: "Affinity score cache hits",
		},
	)

	ScoreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_cache_misses_total",
			Help: "Affinity score cache misses",
		},
	)

	EntitlementCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entitlement_cache_hits_total",
			Help: "Entitlement gate cache hits",
		},
	)
)
