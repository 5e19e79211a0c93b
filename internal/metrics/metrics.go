// Package metrics holds the Prometheus instruments exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distro_http_requests_total",
			Help: "Total number of HTTP requests by route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distro_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distro_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Catalog
	CatalogRecordsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "distro_catalog_records_rejected_total",
			Help: "Catalog records skipped because they failed validation or were duplicates",
		},
	)

	CatalogRecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "distro_catalog_records_loaded",
			Help: "Number of records in the most recent catalog snapshot",
		},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "distro_catalog_load_duration_seconds",
			Help:    "Time spent reading and validating the catalog directory",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	// Recommendations
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distro_recommendations_total",
			Help: "Quiz scoring requests by outcome (matched or empty)",
		},
		[]string{"outcome"},
	)

	// LLM
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distro_llm_requests_total",
			Help: "LLM provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "distro_llm_request_duration_seconds",
			Help:    "LLM provider call latency in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "distro_llm_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCatalogLoad records the outcome of one catalog directory scan.
func RecordCatalogLoad(loaded, rejected int, duration time.Duration) {
	CatalogRecordsLoaded.Set(float64(loaded))
	CatalogRecordsRejected.Add(float64(rejected))
	CatalogLoadDuration.Observe(duration.Seconds())
}

// RecordRecommendation records a scoring request by whether it produced any candidates.
func RecordRecommendation(candidates int) {
	outcome := "matched"
	if candidates == 0 {
		outcome = "empty"
	}
	Recommendations.WithLabelValues(outcome).Inc()
}

// RecordLLMRequest records one provider call.
func RecordLLMRequest(provider string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	LLMRequests.WithLabelValues(provider, outcome).Inc()
	LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordLLMRejected records a call short-circuited by an open breaker.
func RecordLLMRejected(provider string) {
	LLMRequests.WithLabelValues(provider, "rejected").Inc()
}

// SetBreakerState publishes a breaker state as a gauge value.
func SetBreakerState(provider string, state int) {
	BreakerState.WithLabelValues(provider).Set(float64(state))
}
