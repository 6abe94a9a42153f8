package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quesans/backend/internal/metrics"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveAttempt("ok")
		m.ObserveEvaluation("ok", time.Second)
		m.ObserveReport()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveAttempt("connection")
	m.ObserveAttempt("ok")
	m.ObserveEvaluation("ok", 250*time.Millisecond)
	m.ObserveReport()

	count, err := testutil.GatherAndCount(m.Registry(), "quesans_scoring_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quesans_scoring_attempts_total{outcome="connection"} 1`)
	assert.Contains(t, rec.Body.String(), "quesans_reports_total 1")
}
