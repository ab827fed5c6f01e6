// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plotpilot"

// Persistence targets used as label values.
const (
	StoreOverrides   = "overrides"
	StoreLedger      = "ledger"
	StoreMaintenance = "maintenance"
)

// Metrics holds every collector, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	requestDecisions    *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	datasetLoads        *prometheus.CounterVec
	plotUpdates         *prometheus.CounterVec
}

// New creates a registry with process and Go collectors plus the API metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"method", "route"}),
		requestDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_decisions_total",
			Help:      "Plot requests approved or rejected.",
		}, []string{"decision"}),
		persistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed writes to the key-value store by owner.",
		}, []string{"store"}),
		datasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Base dataset loads by result.",
		}, []string{"result"}),
		plotUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plot_updates_total",
			Help:      "Plot property updates by outcome.",
		}, []string{"outcome"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestDecision counts an approval or rejection.
func (m *Metrics) RequestDecision(decision string) {
	m.requestDecisions.WithLabelValues(decision).Inc()
}

// PersistenceFailure counts a failed write by the named store.
func (m *Metrics) PersistenceFailure(store string) {
	m.persistenceFailures.WithLabelValues(store).Inc()
}

// DatasetLoad counts a dataset load attempt.
func (m *Metrics) DatasetLoad(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.datasetLoads.WithLabelValues(result).Inc()
}

// PlotUpdate counts a plot update: "updated" or "not_found".
func (m *Metrics) PlotUpdate(outcome string) {
	m.plotUpdates.WithLabelValues(outcome).Inc()
}
