// Package metrics exports resolution and validation counters in the
// Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/OpenTraceLab/kipart/pkg/netcheck"
)

// Metrics holds the kipart collectors on a private registry, so a run
// exports only its own series.
type Metrics struct {
	Registry *prometheus.Registry

	PartsResolved      *prometheus.CounterVec
	TierFailures       *prometheus.CounterVec
	ValidationFindings *prometheus.CounterVec
	ExternalFetch      *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		PartsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kipart_parts_resolved_total",
				Help: "Parts resolved, by the tier that produced the symbol",
			},
			[]string{"tier"},
		),
		TierFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kipart_tier_failures_total",
				Help: "Attempted resolution tiers that gave up",
			},
			[]string{"tier"},
		),
		ValidationFindings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kipart_validation_findings_total",
				Help: "Net validation findings, by severity",
			},
			[]string{"severity"},
		),
		ExternalFetch: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kipart_external_fetch_seconds",
				Help:    "Duration of external LCSC tool runs",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"status"},
		),
	}
}

// ObserveTier implements resolver.Recorder.
func (m *Metrics) ObserveTier(tier string) {
	if tier == "" {
		tier = "none"
	}
	m.PartsResolved.WithLabelValues(tier).Inc()
}

// ObserveTierFailure implements resolver.Recorder.
func (m *Metrics) ObserveTierFailure(tier string) {
	m.TierFailures.WithLabelValues(tier).Inc()
}

// ObserveExternal implements resolver.Recorder.
func (m *Metrics) ObserveExternal(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ExternalFetch.WithLabelValues(status).Observe(d.Seconds())
}

// ObserveValidation counts the findings of one validation run.
func (m *Metrics) ObserveValidation(res netcheck.Result) {
	m.ValidationFindings.WithLabelValues("error").Add(float64(len(res.Errors)))
	m.ValidationFindings.WithLabelValues("warning").Add(float64(len(res.Warnings)))
}

// WriteTextfile writes all series to path for the node exporter textfile
// collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
