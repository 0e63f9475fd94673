package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the gateway's collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "route"},
	)

	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Calls made to backend services by outcome.",
		},
		[]string{"service", "outcome"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "journiv",
			Name:      "token_refreshes_total",
			Help:      "Access token refresh attempts by result.",
		},
		[]string{"result"},
	)

	searchAssets = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Subsystem: "immich",
			Name:      "search_assets_returned",
			Help:      "Assets reported by metadata searches.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, upstreamCalls, tokenRefreshes, searchAssets)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordUpstreamCall counts one backend round trip. outcome is a status
// code or "error" for transport failures.
func RecordUpstreamCall(service, outcome string) {
	upstreamCalls.WithLabelValues(service, outcome).Inc()
}

func RecordTokenRefresh(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	tokenRefreshes.WithLabelValues(result).Inc()
}

func ObserveSearchAssets(n int64) {
	searchAssets.Observe(float64(n))
}
