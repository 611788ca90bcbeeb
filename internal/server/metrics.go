package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geosketch_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geosketch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"method"},
	)

	importedFeatures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geosketch_import_features_total",
			Help: "Features processed by GeoJSON imports",
		},
		[]string{"outcome"},
	)

	graphicsCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geosketch_graphics",
			Help: "Graphics currently held by the sketch layer",
		},
	)

	tileCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geosketch_tile_cache_total",
			Help: "Basemap tile cache lookups",
		},
		[]string{"result"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geosketch_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
