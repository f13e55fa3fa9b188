package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/depgraph/pkg/observability"
)

// Metrics records pipeline and HTTP activity as Prometheus metrics. It
// implements every hook interface of the observability package; install
// it with [Metrics.Install].
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	graphLoads    *prometheus.CounterVec
	components    prometheus.Gauge
	resolves      *prometheus.CounterVec
	selectionSize prometheus.Histogram
	checkDuration prometheus.Histogram
	findings      prometheus.Gauge
	renders       *prometheus.CounterVec
	renderTime    *prometheus.HistogramVec
	cacheRequests *prometheus.CounterVec
	cacheBytes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_http_requests_total",
				Help: "Number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depgraph_http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		graphLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_graph_loads_total",
				Help: "Number of graph loads by result.",
			},
			[]string{"result"},
		),
		components: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depgraph_graph_components",
				Help: "Number of components in the last successfully loaded graph.",
			},
		),
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_resolve_total",
				Help: "Number of name queries by result.",
			},
			[]string{"result"},
		),
		selectionSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "depgraph_selection_components",
				Help:    "Number of components kept by a selection.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "depgraph_check_duration_seconds",
				Help:    "Time taken to check a graph for redundant dependencies.",
				Buckets: prometheus.DefBuckets,
			},
		),
		findings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depgraph_redundant_findings",
				Help: "Number of components with redundant dependencies in the last check.",
			},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_render_total",
				Help: "Number of renders by format and result.",
			},
			[]string{"format", "result"},
		),
		renderTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depgraph_render_duration_seconds",
				Help:    "Time taken to render a selection.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_cache_requests_total",
				Help: "Number of cache lookups by key type and result.",
			},
			[]string{"key_type", "result"},
		),
		cacheBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "depgraph_cache_written_bytes_total",
				Help: "Bytes stored in the artifact cache.",
			},
		),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.graphLoads,
		m.components,
		m.resolves,
		m.selectionSize,
		m.checkDuration,
		m.findings,
		m.renders,
		m.renderTime,
		m.cacheRequests,
		m.cacheBytes,
	)
	return m
}

// Install sets m as the graph, render, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetGraphHooks(m)
	observability.SetRenderHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Graph hooks

func (m *Metrics) OnLoad(_ context.Context, _ string, components int, _ time.Duration, err error) {
	m.graphLoads.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.components.Set(float64(components))
	}
}

func (m *Metrics) OnResolve(_ context.Context, _ string, _ int, err error) {
	m.resolves.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) OnFilter(_ context.Context, _, kept int) {
	m.selectionSize.Observe(float64(kept))
}

func (m *Metrics) OnCheck(_ context.Context, findings int, d time.Duration, err error) {
	m.checkDuration.Observe(d.Seconds())
	if err == nil {
		m.findings.Set(float64(findings))
	}
}

// Render hooks

func (m *Metrics) OnRenderStart(context.Context, string, int) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, _ int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, result(err)).Inc()
	m.renderTime.WithLabelValues(format).Observe(d.Seconds())
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.cacheBytes.Add(float64(size))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.GraphHooks  = (*Metrics)(nil)
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
