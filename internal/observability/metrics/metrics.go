// Package metrics exposes prometheus instruments for the HTTP surface
// and the utility reconciliation path.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds request-level prometheus collectors.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers HTTP collectors on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metamorph_http_requests_total",
		Help: "Total HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metamorph_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	prometheus.MustRegister(requests, duration)

	return &HTTPMetrics{requests: requests, duration: duration}
}

// GinMiddleware records per-request counters and latencies.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(route, method, status).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// ReconcileMetrics counts reconciliation-engine activity.
type ReconcileMetrics struct {
	upserts    prometheus.Counter
	recomputes prometheus.Counter
	repairs    prometheus.Counter
}

// NewReconcileMetrics registers reconciliation collectors.
func NewReconcileMetrics() *ReconcileMetrics {
	upserts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metamorph_utility_upserts_total",
		Help: "Total daily utility rollup upserts.",
	})
	recomputes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metamorph_utility_recomputes_total",
		Help: "Total daily utility recompute passes.",
	})
	repairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metamorph_utility_duplicate_repairs_total",
		Help: "Total duplicate-date repair operations.",
	})

	prometheus.MustRegister(upserts, recomputes, repairs)

	return &ReconcileMetrics{upserts: upserts, recomputes: recomputes, repairs: repairs}
}

func (m *ReconcileMetrics) RecordUpsert() {
	if m != nil {
		m.upserts.Inc()
	}
}

func (m *ReconcileMetrics) RecordRecompute() {
	if m != nil {
		m.recomputes.Inc()
	}
}

func (m *ReconcileMetrics) RecordRepair() {
	if m != nil {
		m.repairs.Inc()
	}
}
