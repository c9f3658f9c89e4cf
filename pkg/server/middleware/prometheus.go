package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector holds the request and API error metrics.
type PrometheusCollector struct {
	reqCount   *prometheus.CounterVec
	reqDurHist *prometheus.HistogramVec
	apiErrors  *prometheus.CounterVec
	registry   *prometheus.Registry
}

// NewPrometheusCollector creates and registers the metrics on a private registry.
func NewPrometheusCollector() *PrometheusCollector {
	reg := prometheus.NewRegistry()

	reqCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	reqDurHist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of request durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	apiErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "API errors produced by handlers, by HTTP status and errno",
		},
		[]string{"status", "errno"},
	)

	reg.MustRegister(reqCount, reqDurHist, apiErrors)

	return &PrometheusCollector{
		reqCount:   reqCount,
		reqDurHist: reqDurHist,
		apiErrors:  apiErrors,
		registry:   reg,
	}
}

// PrometheusMiddleware returns a gin middleware that collects metrics.
func (pc *PrometheusCollector) PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		pc.reqCount.WithLabelValues(method, path, status).Inc()
		pc.reqDurHist.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		if e, ok := GetAPIError(c); ok {
			pc.apiErrors.WithLabelValues(strconv.Itoa(e.Status()), strconv.Itoa(e.Errno())).Inc()
		}
	}
}

// Registry returns the registry holding the collector's metrics.
func (pc *PrometheusCollector) Registry() *prometheus.Registry { return pc.registry }

// Handler exposes the metrics for the host to mount.
func (pc *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(pc.registry, promhttp.HandlerOpts{})
}
