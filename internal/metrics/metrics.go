package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests served by the dashboard host",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the dashboard host",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Refresh pipeline
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_total",
			Help: "View refreshes by outcome",
		},
		[]string{"view", "outcome"}, // entries/stats/profile, applied/stale/failed
	)

	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_refresh_duration_seconds",
			Help:    "Time from issuing a refresh to applying or discarding it",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"view"},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_render_failures_total",
			Help: "Chart renders that failed",
		},
		[]string{"canvas"},
	)
)

const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeFailed  = "failed"
)

// TrackRefresh records the outcome of one refresh.
func TrackRefresh(view, outcome string, seconds float64) {
	RefreshTotal.WithLabelValues(view, outcome).Inc()
	RefreshDuration.WithLabelValues(view).Observe(seconds)
}

// TrackRenderFailure counts a failed chart render.
func TrackRenderFailure(canvas string) {
	RenderFailures.WithLabelValues(canvas).Inc()
}
