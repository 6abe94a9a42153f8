// Package metrics exposes Prometheus collectors for grading runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	attempts    *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	reports     prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quesans_scoring_attempts_total",
			Help: "Calls made to the scoring endpoint, by outcome.",
		}, []string{"outcome"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quesans_evaluations_total",
			Help: "Graded answers, by outcome (ok or the failure class).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quesans_evaluation_duration_seconds",
			Help:    "Time to grade one answer including retries.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quesans_reports_total",
			Help: "Completed grading runs.",
		}),
	}

	m.registry.MustRegister(m.attempts, m.evaluations, m.duration, m.reports)
	return m
}

// ObserveAttempt counts one call to the scoring endpoint.
func (m *Metrics) ObserveAttempt(outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

// ObserveEvaluation records a finished evaluation.
func (m *Metrics) ObserveEvaluation(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
}

// ObserveReport counts a completed run.
func (m *Metrics) ObserveReport() {
	if m == nil {
		return
	}
	m.reports.Inc()
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
