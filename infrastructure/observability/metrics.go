package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ifn-backend/application/ports"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Listing metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	PipelineRuns  *prometheus.CounterVec
	Malformed     *prometheus.GaugeVec

	// List view sessions
	ListViews prometheus.Gauge
}

var _ ports.Metrics = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so tests can build as many as they like
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries by type and outcome",
			},
			[]string{"query", "status"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query duration in seconds",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"query"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Filter, sort and paginate runs by collection and trigger",
			},
			[]string{"collection", "trigger"},
		),
		Malformed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "malformed_records",
				Help:      "Records excluded by the last pipeline run of a collection",
			},
			[]string{"collection"},
		),
		ListViews: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "listview_sessions",
				Help:      "Open list view sessions",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryDuration,
		c.PipelineRuns,
		c.Malformed,
		c.ListViews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveQuery records one query execution
func (c *Collector) ObserveQuery(query string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.Queries.WithLabelValues(query, status).Inc()
	c.QueryDuration.WithLabelValues(query).Observe(d.Seconds())
}

// MalformedRecords sets the number of records the last run excluded
func (c *Collector) MalformedRecords(collection string, n int) {
	c.Malformed.WithLabelValues(collection).Set(float64(n))
}

// PipelineRun counts a pipeline run
func (c *Collector) PipelineRun(collection, trigger string) {
	c.PipelineRuns.WithLabelValues(collection, trigger).Inc()
}

// ObserveHTTP records one HTTP request
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetListViews sets the open session gauge
func (c *Collector) SetListViews(n int) {
	c.ListViews.Set(float64(n))
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
