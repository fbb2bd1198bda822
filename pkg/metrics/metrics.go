// Package metrics exposes Prometheus collectors for the stats API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nflstats"

// Manager owns every collector and the registry they are registered on.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	providerRequests    *prometheus.CounterVec
	materializations    *prometheus.CounterVec
	smashRows           prometheus.Gauge
	syncRuns            *prometheus.CounterVec
}

// NewManager registers all collectors on a fresh registry so the default Go
// runtime collectors stay out of the exposition.
func NewManager() *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"path", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "method"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by result (hit or miss)",
	}, []string{"result"})

	m.providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Upstream provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	m.materializations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "smash_materializations_total",
		Help:      "Smash score materialization runs by outcome",
	}, []string{"outcome"})

	m.smashRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "smash_rows_materialized",
		Help:      "Rows written by the most recent smash score materialization",
	})

	m.syncRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Scheduled provider sync runs by outcome",
	}, []string{"outcome"})

	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ObserveHTTPRequest(path, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

func (m *Manager) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Manager) RecordProviderRequest(endpoint string, err error) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(endpoint, outcome(err)).Inc()
}

func (m *Manager) RecordMaterialization(rows int, err error) {
	if m == nil {
		return
	}
	m.materializations.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.smashRows.Set(float64(rows))
	}
}

func (m *Manager) RecordSync(err error) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
