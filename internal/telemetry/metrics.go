package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PipelineRuns counts pipeline runs by outcome ("ok" or "error").
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maritime_pipeline_runs_total",
		Help: "Total pipeline runs",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maritime_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"stage"})

	// MergeUnmatched counts distinct join keys with no match, by key kind
	// ("port" or "year").
	MergeUnmatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maritime_merge_unmatched_total",
		Help: "Join keys left unmatched by the dataset merger",
	}, []string{"key"})

	ForecastPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maritime_forecast_points",
		Help: "Number of points in the most recent forecast",
	})

	CachedRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maritime_cached_runs",
		Help: "Run results currently held by the API cache",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maritime_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maritime_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	}, []string{"method", "path"})

	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maritime_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
