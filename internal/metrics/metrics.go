package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookclub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_catalog_requests_total",
		Help: "Catalog lookups by provider and outcome",
	}, []string{"provider", "outcome"})

	GenerationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_generation_requests_total",
		Help: "Text-generation calls by kind and outcome",
	}, []string{"kind", "outcome"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookclub_generation_duration_seconds",
		Help:    "Duration of text-generation calls in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"kind"})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_searches_total",
		Help: "Searches by outcome",
	}, []string{"outcome"})
)
