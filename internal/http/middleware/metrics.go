// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus collectors for HTTP traffic. Series are
// labelled by method, registered route, and status; the route label is the
// Gin pattern, so submit, listing, admin and preflight traffic stay a handful
// of series no matter what URLs clients send.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedPath is the path label for requests that matched no route,
// including OPTIONS preflights answered before routing.
const UnmatchedPath = "unmatched"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	// No status label: latency per route is what matters for the submit path.
	requestSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	requestsInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "Current number of in-flight HTTP requests.",
	})

	// From a one-line submit reply up to an admin page listing thousands of rows.
	responseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "Size of HTTP responses in bytes.",
		Buckets: prometheus.ExponentialBuckets(64, 4, 9), // 64B .. 4MiB
	}, []string{"method", "path"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestSeconds, requestsInflight, responseBytes)
}

// routeLabel returns the registered route for c, or UnmatchedPath.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return UnmatchedPath
}

// Metrics records request count, latency, in-flight gauge, and response size.
// Mount promhttp.Handler() on /metrics to expose them.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestsInflight.Inc()
		defer requestsInflight.Dec()

		c.Next()

		method, path := c.Request.Method, routeLabel(c)
		requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		requestSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when no body was written (204 preflight).
		if n := c.Writer.Size(); n >= 0 {
			responseBytes.WithLabelValues(method, path).Observe(float64(n))
		}
	}
}
