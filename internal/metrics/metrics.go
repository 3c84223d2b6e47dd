// Package metrics exposes the Prometheus collectors of the dashboard tier.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors shared by the HTTP server and the
// platform API client.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UpstreamCalls   *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	LeadsStaged     prometheus.Counter
	LeadsSynced     prometheus.Counter

	registry *prometheus.Registry
}

// New builds a Metrics set on its own registry so tests can instantiate
// it repeatedly without duplicate-registration panics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandmize_http_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brandmize_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		UpstreamCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandmize_platform_requests_total",
			Help: "Requests to the platform API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandmize_view_cache_total",
			Help: "View cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
		LeadsStaged: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandmize_leads_staged_total",
			Help: "Leads accepted into the local import staging store.",
		}),
		LeadsSynced: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandmize_leads_synced_total",
			Help: "Leads successfully pushed to the platform API.",
		}),
		registry: reg,
	}
}

// Handler returns the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
