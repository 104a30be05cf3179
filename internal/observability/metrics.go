package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "copilot_metrics"

// Upload kinds and results used as label values.
const (
	UploadDataset = "dataset"
	UploadMembers = "members"

	ResultOK         = "ok"
	ResultParseError = "parse_error"
	ResultEmpty      = "empty"
	ResultRejected   = "rejected"
)

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and
// records nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	uploadRecords  prometheus.Counter
	rebuildSeconds prometheus.Histogram
	workspaces     prometheus.Gauge
}

func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Uploaded files by kind and outcome.",
			},
			[]string{"kind", "result"},
		),
		uploadRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_records_total",
			Help:      "Usage records accepted from dataset uploads.",
		}),
		rebuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_rebuild_duration_seconds",
			Help:      "Time spent re-filtering and re-aggregating a workspace view.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workspaces",
			Help:      "Workspaces currently held in memory.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpLatency, m.uploads, m.uploadRecords, m.rebuildSeconds, m.workspaces,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordUpload(kind, result string, records int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(kind, result).Inc()
	if records > 0 {
		m.uploadRecords.Add(float64(records))
	}
}

func (m *Metrics) ObserveRebuild(d time.Duration) {
	if m == nil {
		return
	}
	m.rebuildSeconds.Observe(d.Seconds())
}

func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpLatency.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
