// Package metrics holds the Prometheus collectors for sync passes and the API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arrfill"

// Metrics owns a private registry so tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry

	Passes        *prometheus.CounterVec // result
	PassDuration  prometheus.Histogram
	UseCaseErrors *prometheus.CounterVec // use_case
	Exports       *prometheus.CounterVec // result
	ReGrabs       *prometheus.CounterVec // result
	MissingShows  prometheus.Gauge
	HTTPRequests  *prometheus.CounterVec // method, route, status
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_passes_total",
			Help:      "Full sync passes by result.",
		}, []string{"result"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_pass_duration_seconds",
			Help:      "Duration of full sync passes.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		UseCaseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_case_errors_total",
			Help:      "Errors that aborted a sync pass, by use case.",
		}, []string{"use_case"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Release exports to Sonarr by result.",
		}, []string{"result"}),
		ReGrabs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regrabs_total",
			Help:      "Outdated release checks by result.",
		}, []string{"result"}),
		MissingShows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "missing_shows",
			Help:      "Shows with missing seasons after the last sync.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Passes,
		m.PassDuration,
		m.UseCaseErrors,
		m.Exports,
		m.ReGrabs,
		m.MissingShows,
		m.HTTPRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts one API request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
