// Package metrics exposes Prometheus collectors for the HTTP layer and the
// catalog service.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/locallibrary/internal/catalog"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	requestDuration *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	summaryDuration prometheus.Histogram
}

// New registers the collectors on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Catalog mutation attempts by record kind, operation and outcome.",
		}, []string{"kind", "op", "outcome"}),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_summary_duration_seconds",
			Help:    "Time taken to compute the catalog summary counts.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requestDuration, m.mutations, m.summaryDuration)
	return m
}

// Observe counts a catalog mutation.
func (m *Metrics) Observe(_ context.Context, e catalog.Event) {
	m.mutations.WithLabelValues(string(e.Kind), string(e.Op), string(e.Outcome)).Inc()
}

// ObserveSummary records how long a summary took.
func (m *Metrics) ObserveSummary(d time.Duration) {
	m.summaryDuration.Observe(d.Seconds())
}

// Middleware times every request. Unmatched routes are labelled "unmatched"
// to keep the label set bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
