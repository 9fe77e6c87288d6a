package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ImportDone(OutcomeSuccess)
	m.ImportDone(OutcomeSuccess)
	m.ImportDone(OutcomeFailure)
	m.RecordsMerged(2, 1, 3)
	m.AnalysisDone(OutcomeRejected)
	m.PersistFailed("assets")
	m.RPCDone("/wealthsnap.v1.PortfolioService/GetDashboard", "OK", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Imports.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Imports.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractedRecords.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractedRecords.WithLabelValues("updated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ExtractedRecords.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("assets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("/wealthsnap.v1.PortfolioService/GetDashboard", "OK")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ImportDone(OutcomeSuccess)
		m.RecordsMerged(1, 1, 1)
		m.AnalysisDone(OutcomeFailure)
		m.PersistFailed("history")
		m.RPCDone("method", "OK", 1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ImportDone(OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `wealthsnap_imports_total{outcome="success"} 1`)
}
