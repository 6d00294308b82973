package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for GenerationRequests.
const (
	OutcomeSuccess      = "success"
	OutcomeUnstructured = "unstructured"
	OutcomeInvalid      = "validation_failed"
	OutcomeNotFound     = "agent_not_found"
	OutcomeFailed       = "generation_failed"
)

var (
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_generation_requests_total",
			Help: "Total number of generation requests by outcome",
		},
		[]string{"agent_type", "provider", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ruraldraft_generation_duration_seconds",
			Help:    "Duration of the text-generation backend call in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"provider"},
	)

	SalvageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_salvage_failures_total",
			Help: "Backend replies that could not be parsed as a JSON object",
		},
		[]string{"agent_type"},
	)

	SchemaWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_schema_warnings_total",
			Help: "Backend replies that parsed but did not match the agent schema",
		},
		[]string{"agent_type"},
	)

	EnrichmentFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_enrichment_fallbacks_total",
			Help: "Enrichment lookups that failed or came back empty",
		},
		[]string{"source"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_cache_requests_total",
			Help: "Cache lookups by namespace and result",
		},
		[]string{"namespace", "result"},
	)

	ExportsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruraldraft_exports_stored_total",
			Help: "Rendered documents written to export storage",
		},
		[]string{"storage"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ruraldraft_http_request_duration_seconds",
			Help: "HTTP request latency by route and status",
		},
		[]string{"method", "route", "status"},
	)

	InFlightGenerations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ruraldraft_generations_in_flight",
			Help: "Generation requests currently running",
		},
	)
)
