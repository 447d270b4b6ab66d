package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daily-reconciliation/internal/matching"
)

const namespace = "reconciliation"

// Run statuses
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Metrics holds the reconciliation collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	matchedGroup *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	mismatch     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Reconciliation runs by outcome.",
		}, []string{"status"}),
		matchedGroup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matched_groups_total",
			Help:      "Match groups produced, by matching level.",
		}, []string{"level"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_records_total",
			Help:      "Records excluded before matching, by source and reason.",
		}, []string{"source", "reason"}),
		mismatch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mismatch_total_minor_units",
			Help:      "Mismatch total of the latest run for a report date.",
		}, []string{"report_date"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.runs,
		m.matchedGroup,
		m.dropped,
		m.mismatch,
	)
	return m
}

// ObserveResult records the groups, drops and mismatch of one result.
func (m *Metrics) ObserveResult(res *matching.ReconciliationResult) {
	for level, n := range res.GroupsByLevel() {
		m.matchedGroup.WithLabelValues(string(level)).Add(float64(n))
	}
	for _, d := range res.Dropped {
		m.dropped.WithLabelValues(d.Source, d.Reason).Inc()
	}
	m.mismatch.WithLabelValues(res.ReportDate).Set(float64(res.MismatchTotalMinorUnits))
}

// ObserveRun counts a finished run with the given status.
func (m *Metrics) ObserveRun(status string) {
	m.runs.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
