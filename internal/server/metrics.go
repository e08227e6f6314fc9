package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Recompute   prometheus.Histogram
	Exports     *prometheus.CounterVec
	DatasetRows prometheus.Gauge
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assuranalytics_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assuranalytics_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		Recompute: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assuranalytics_recompute_duration_seconds",
				Help:    "Time to filter the portfolio and rebuild the dashboard",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),

		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assuranalytics_exports_total",
				Help: "Total number of report exports by format and result",
			},
			[]string{"format", "result"},
		),

		DatasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "assuranalytics_dataset_rows",
				Help: "Number of insured records in the loaded portfolio",
			},
		),
	}

	m.registry.MustRegister(
		m.Requests,
		m.Duration,
		m.Recompute,
		m.Exports,
		m.DatasetRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecomputeTimer tracks one dashboard rebuild.
type RecomputeTimer struct {
	metrics *Metrics
	start   time.Time
}

// StartRecompute begins timing a dashboard rebuild.
func (m *Metrics) StartRecompute() *RecomputeTimer {
	return &RecomputeTimer{metrics: m, start: time.Now()}
}

// Stop records the elapsed time.
func (t *RecomputeTimer) Stop() {
	t.metrics.Recompute.Observe(time.Since(t.start).Seconds())
}

// RecordExport counts an export attempt.
func (m *Metrics) RecordExport(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Exports.WithLabelValues(format, result).Inc()
}
