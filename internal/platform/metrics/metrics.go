// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Book provider request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"provider", "outcome"},
	)

	SubjectFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_subject_fetches_total",
			Help: "Catalog subject queries by outcome",
		},
		[]string{"outcome"},
	)

	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_books",
			Help: "Unique books in the last catalog round",
		},
	)

	CatalogGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_genre_groups",
			Help: "Genre groups in the last catalog round",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordProviderRequest(provider string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func RecordSubjectFetch(err error) {
	if err != nil {
		SubjectFetches.WithLabelValues("failed").Inc()
		return
	}
	SubjectFetches.WithLabelValues("ok").Inc()
}

func RecordCatalogRound(books, groups int) {
	CatalogBooks.Set(float64(books))
	CatalogGroups.Set(float64(groups))
}
