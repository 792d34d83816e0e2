package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brale"

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the Brale API, by endpoint and response code.",
		},
		[]string{"endpoint", "code"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests sent to the Brale API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BalanceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_lookups_total",
			Help:      "Balance lookups by outcome (answered or unavailable).",
		},
		[]string{"outcome"},
	)

	DashboardLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_loads_total",
			Help:      "Wallet-view activations by outcome.",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequests, UpstreamLatency, BalanceLookups, DashboardLoads)
	})
}

// ObserveRequest records one upstream call. A statusCode of 0 means the request never got a response.
func ObserveRequest(endpoint string, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	UpstreamRequests.WithLabelValues(endpoint, code).Inc()
	UpstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
