package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	selfieUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfie_uploads_total",
			Help: "Total number of selfie uploads processed",
		},
		[]string{"outcome"},
	)

	selfieMatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "selfie_match_duration_seconds",
			Help:    "Duration of selfie match reconciliation",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"outcome"},
	)
)

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// RecordSelfieUpload tracks upload outcomes: "match", "no_match" or "error".
func RecordSelfieUpload(outcome string, duration time.Duration) {
	selfieUploadsTotal.WithLabelValues(outcome).Inc()
	selfieMatchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
