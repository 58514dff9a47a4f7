package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amhub/dataworld/internal/core/domain"
)

// Metrics holds the collectors exposed on /metrics
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	materials   prometheus.Gauge
	swaps       prometheus.Counter
	submissions *prometheus.CounterVec
}

// NewMetrics registers the catalog collectors on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataworld",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dataworld",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		materials: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dataworld",
			Name:      "catalog_materials",
			Help:      "Materials in the current catalog snapshot.",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dataworld",
			Name:      "catalog_swaps_total",
			Help:      "Successful catalog snapshot swaps.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataworld",
			Name:      "submissions_total",
			Help:      "Request and contact submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(
		m.requests, m.latency, m.materials, m.swaps, m.submissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware instruments request counts and latency
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveSwap records a new catalog snapshot
func (m *Metrics) ObserveSwap(cat *domain.Catalog) {
	m.swaps.Inc()
	m.materials.Set(float64(cat.Len()))
}

// ObserveSubmission records the outcome of a delivery
func (m *Metrics) ObserveSubmission(kind domain.SubmissionKind, err error) {
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	m.submissions.WithLabelValues(string(kind), outcome).Inc()
}
