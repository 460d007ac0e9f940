// Package metrics exposes Prometheus collectors for the recipe service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	scrapesTotal               *prometheus.CounterVec
	scrapeDurationSeconds      prometheus.Histogram
	recipesSavedTotal          prometheus.Counter
	icalFeedsTotal             prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_scrapes_total",
				Help: "Total number of external recipe scrapes, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapeDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_scrape_duration_seconds",
				Help:    "Histogram of end-to-end scrape durations.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
		)

		recipesSavedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_saved_total",
				Help: "Total number of recipe documents persisted.",
			},
		)

		icalFeedsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ical_feeds_generated_total",
				Help: "Total number of calendar feeds generated.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveScrape records one scrape attempt with its outcome and duration.
func ObserveScrape(outcome string, duration time.Duration) {
	scrapesTotal.WithLabelValues(outcome).Inc()
	scrapeDurationSeconds.Observe(duration.Seconds())
}

// ObserveRecipeSaved increments the persisted recipe counter.
func ObserveRecipeSaved() {
	recipesSavedTotal.Inc()
}

// ObserveICalFeed increments the generated feed counter.
func ObserveICalFeed() {
	icalFeedsTotal.Inc()
}
