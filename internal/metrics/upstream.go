package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream Prometheus metrics covering the AI, map-data, and geocoding providers.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthagg",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream requests",
		},
		[]string{"provider", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healthagg",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	AnalysisFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "healthagg",
			Name:      "analysis_fallback_total",
			Help:      "Symptom analyses served by the static fallback database",
		},
	)

	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthagg",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers upstream Prometheus metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(AnalysisFallbackTotal)
	prometheus.MustRegister(GeocodeCacheTotal)
	upstreamMetricsRegistered = true
}
