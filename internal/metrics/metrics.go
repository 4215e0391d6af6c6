// Package metrics exposes Prometheus collectors for scan and parse outcomes.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scorecard"

// Metrics holds the collectors for scan processing. A nil *Metrics is valid
// and records nothing, which keeps callers free of nil checks.
type Metrics struct {
	registry *prometheus.Registry

	scansTotal       *prometheus.CounterVec
	ocrDuration      prometheus.Histogram
	recordsTotal     *prometheus.CounterVec
	rowsSkippedTotal *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	storeErrorsTotal prometheus.Counter
}

// ParseCounts summarizes one parse run for recording.
type ParseCounts struct {
	Accepted  int
	Rejected  map[string]int // rejection reason -> count
	Skipped   map[string]int // skip reason -> count
	Fallbacks map[string]int // field kind ("score", "total") -> count
}

// New creates a Metrics instance on a private registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scans processed, by outcome.",
		}, []string{"outcome"}),
		ocrDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ocr_duration_seconds",
			Help:      "Time spent transcribing scorecard images.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Golfer records produced by the parser, by validation outcome.",
		}, []string{"outcome", "reason"}),
		rowsSkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Golfer rows dropped before a record was built, by reason.",
		}, []string{"reason"}),
		fallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coercion_fallbacks_total",
			Help:      "Tokens replaced by the missing marker, by field.",
		}, []string{"field"}),
		storeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed record store writes.",
		}),
	}

	collectors := []prometheus.Collector{
		m.scansTotal,
		m.ocrDuration,
		m.recordsTotal,
		m.rowsSkippedTotal,
		m.fallbacksTotal,
		m.storeErrorsTotal,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordScan counts a finished scan. outcome is "ok" or a failure kind.
func (m *Metrics) RecordScan(outcome string) {
	if m == nil {
		return
	}
	m.scansTotal.WithLabelValues(outcome).Inc()
}

// ObserveOCR records the duration of one transcription call.
func (m *Metrics) ObserveOCR(d time.Duration) {
	if m == nil {
		return
	}
	m.ocrDuration.Observe(d.Seconds())
}

// RecordParse adds the counts of one parse run.
func (m *Metrics) RecordParse(c ParseCounts) {
	if m == nil {
		return
	}
	if c.Accepted > 0 {
		m.recordsTotal.WithLabelValues("accepted", "").Add(float64(c.Accepted))
	}
	for reason, n := range c.Rejected {
		m.recordsTotal.WithLabelValues("rejected", reason).Add(float64(n))
	}
	for reason, n := range c.Skipped {
		m.rowsSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
	for field, n := range c.Fallbacks {
		m.fallbacksTotal.WithLabelValues(field).Add(float64(n))
	}
}

// RecordStoreError counts a failed write to the record store.
func (m *Metrics) RecordStoreError() {
	if m == nil {
		return
	}
	m.storeErrorsTotal.Inc()
}
