// Package metrics exposes Prometheus metrics for form submissions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "regform"

// Metrics holds the collectors registered for the application.
type Metrics struct {
	registry           *prometheus.Registry
	submissionsTotal   *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	fieldChangesTotal  prometheus.Counter
}

// New registers the collectors on a fresh registry. mountedForms is sampled
// on every scrape to report the number of live form instances.
func New(mountedForms func() int) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of form submissions by outcome",
		}, []string{"outcome"}),

		submissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent waiting for the auth endpoint",
			Buckets:   prometheus.DefBuckets,
		}),

		fieldChangesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_changes_total",
			Help:      "Total number of field change events received",
		}),
	}

	if mountedForms != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mounted_forms",
			Help:      "Number of form instances currently mounted",
		}, func() float64 { return float64(mountedForms()) })
	}
	return m
}

// ObserveSubmission records one submission attempt.
func (m *Metrics) ObserveSubmission(outcome string, d time.Duration) {
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.submissionDuration.Observe(d.Seconds())
}

// ObserveFieldChange records one field change event.
func (m *Metrics) ObserveFieldChange() {
	m.fieldChangesTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
