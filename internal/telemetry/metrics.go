package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "testgen_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "testgen_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Generations counts generation attempts by language and outcome
	// (success, cached, failed, timeout).
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "testgen_generations_total",
		Help: "Test generation attempts by language and outcome.",
	}, []string{"language", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "testgen_provider_latency_seconds",
		Help:    "Completion service call latency.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"provider"})

	CoverageEstimates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "testgen_coverage_estimate",
		Help:    "Distribution of estimated coverage scores.",
		Buckets: prometheus.LinearBuckets(65, 5, 7),
	})
)
