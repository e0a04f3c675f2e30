package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	formSubmissionsTotal *prometheus.CounterVec
	formStatsSeconds     prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chorus_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chorus_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chorus_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		formSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chorus_form_submissions_total",
			Help: "Form response submissions by outcome.",
		}, []string{"outcome"})

		formStatsSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chorus_form_stats_seconds",
			Help:    "Latency distribution for form statistics computation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, formSubmissionsTotal, formStatsSeconds)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// FormSubmissions exposes the counter for form submission outcomes.
func FormSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return formSubmissionsTotal
}

// FormStatsDuration exposes the histogram for statistics computation latency.
func FormStatsDuration() prometheus.Histogram {
	RegisterMetrics()
	return formStatsSeconds
}
