package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. Build one per process with New and
// pass it to the components that record.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPInFlight      prometheus.Gauge
	Decisions         *prometheus.CounterVec
	EffectFailures    *prometheus.CounterVec
	ChecklistFallback prometheus.Counter
	Submissions       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_decisions_total",
			Help: "Review decisions by kind, action and outcome.",
		}, []string{"kind", "action", "outcome"}),
		EffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_side_effect_failures_total",
			Help: "Best-effort effects (email, role grant, upload) that failed.",
		}, []string{"effect"}),
		ChecklistFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_checklist_fallback_total",
			Help: "Checklist saves folded into admin_notes because the column is missing.",
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Applications submitted by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration, m.HTTPInFlight,
		m.Decisions, m.EffectFailures, m.ChecklistFallback, m.Submissions,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Nil-safe recorders so components can run without metrics in tests.

func (m *Metrics) ObserveDecision(kind, action, outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(kind, action, outcome).Inc()
}

func (m *Metrics) ObserveEffectFailure(effect string) {
	if m == nil {
		return
	}
	m.EffectFailures.WithLabelValues(effect).Inc()
}

func (m *Metrics) ObserveChecklistFallback() {
	if m == nil {
		return
	}
	m.ChecklistFallback.Inc()
}

func (m *Metrics) ObserveSubmission(kind string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind).Inc()
}
