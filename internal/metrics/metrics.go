package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics holds the service's collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	cascadeTotal   *prometheus.CounterVec
	cascadeRows    *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "themeboard",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "themeboard",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		cascadeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "themeboard",
			Subsystem: "store",
			Name:      "cascade_deletes_total",
			Help:      "Number of cascading deletes by root entity",
		}, []string{"entity"}),
		cascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "themeboard",
			Subsystem: "store",
			Name:      "cascade_dependents_total",
			Help:      "Dependent rows removed or detached by cascading deletes",
		}, []string{"entity", "dependent"}),
	}

	reg.MustRegister(
		m.requestTotal,
		m.requestLatency,
		m.cascadeTotal,
		m.cascadeRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records a request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

// CascadeDeleted counts one cascading delete of entity and what it took
// with it.
func (m *Metrics) CascadeDeleted(entity string, themes, memberships, headsCleared int64) {
	m.cascadeTotal.WithLabelValues(entity).Inc()
	m.cascadeRows.WithLabelValues(entity, "themes").Add(float64(themes))
	m.cascadeRows.WithLabelValues(entity, "memberships").Add(float64(memberships))
	m.cascadeRows.WithLabelValues(entity, "heads_cleared").Add(float64(headsCleared))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
