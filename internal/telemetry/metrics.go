package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wealthsnap"

// Outcome labels shared by the counters
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics holds the Prometheus collectors of the service
// A nil *Metrics is valid and records nothing
type Metrics struct {
	Imports          *prometheus.CounterVec
	ExtractedRecords *prometheus.CounterVec
	Analyses         *prometheus.CounterVec
	PersistFailures  *prometheus.CounterVec
	RPCRequests      *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg
// Pass prometheus.NewRegistry() in tests to keep runs isolated
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Screenshot imports by outcome.",
		}, []string{"outcome"}),
		ExtractedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_records_total",
			Help:      "Extracted asset records by reconciliation result (inserted, updated, skipped).",
		}, []string{"result"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Portfolio analyses by outcome.",
		}, []string{"outcome"}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes to the store by key.",
		}, []string{"key"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "gRPC request latency by method.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
		gatherer: reg,
	}

	reg.MustRegister(m.Imports, m.ExtractedRecords, m.Analyses, m.PersistFailures, m.RPCRequests, m.RPCDuration)
	return m
}

// Handler returns the HTTP handler exposing the registered collectors
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ImportDone records the outcome of a screenshot import
func (m *Metrics) ImportDone(outcome string) {
	if m == nil {
		return
	}
	m.Imports.WithLabelValues(outcome).Inc()
}

// RecordsMerged records how extracted records were reconciled
func (m *Metrics) RecordsMerged(inserted, updated, skipped int) {
	if m == nil {
		return
	}
	m.ExtractedRecords.WithLabelValues("inserted").Add(float64(inserted))
	m.ExtractedRecords.WithLabelValues("updated").Add(float64(updated))
	m.ExtractedRecords.WithLabelValues("skipped").Add(float64(skipped))
}

// AnalysisDone records the outcome of an analysis request
func (m *Metrics) AnalysisDone(outcome string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
}

// PersistFailed records a failed store write for key
func (m *Metrics) PersistFailed(key string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(key).Inc()
}

// RPCDone records a finished gRPC call
func (m *Metrics) RPCDone(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, code).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(seconds)
}
