package http

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_http_requests_total",
		Help: "Total number of HTTP requests handled, by method, path and status",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fintrack_http_request_duration_seconds",
		Help:    "Time taken to handle HTTP requests",
		Buckets: prometheus.DefBuckets,
	})
)

func observeRequest(method, path string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.Observe(seconds)
}
