// Package metrics holds the process-wide Prometheus collectors.
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
			Name: "beaches_http_requests_total",
			Help: "Total HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beaches_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Discovery
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_discovery_requests_total",
			Help: "Discovery queries by mode (filter, collection) and view",
		},
		[]string{"mode", "view"},
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beaches_discovery_duration_seconds",
			Help:    "Time spent resolving, querying, sorting and annotating a discovery request",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"mode"},
	)

	DiscoveryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beaches_discovery_matches",
			Help:    "Matches per discovery request before capping",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250, 500},
		},
	)

	CollectionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_collection_fallbacks_total",
			Help: "Collection requests that were broadened because the strict query was too sparse",
		},
		[]string{"collection"},
	)

	// Upstreams
	WeatherRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_weather_provider_requests_total",
			Help: "Weather lookups by result (hit, success, error, open)",
		},
		[]string{"result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beaches_circuit_breaker_state",
			Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_circuit_breaker_transitions_total",
			Help: "Upstream circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_mail_deliveries_total",
			Help: "Outbound email attempts by result",
		},
		[]string{"result"},
	)

	// Admin
	AdminActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_admin_actions_total",
			Help: "Admin publish and moderation actions by action and resulting state",
		},
		[]string{"action", "state"},
	)

	LeadRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beaches_lead_rate_limited_total",
			Help: "Lead-capture requests rejected by the rate limiter, by scope",
		},
		[]string{"scope"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDiscovery records one discovery request.
func ObserveDiscovery(mode, view string, matches int, duration time.Duration) {
	DiscoveryRequests.WithLabelValues(mode, view).Inc()
	DiscoveryDuration.WithLabelValues(mode).Observe(duration.Seconds())
	DiscoveryResults.Observe(float64(matches))
}
