package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ExpositionContainsRecordedSeries(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest(http.MethodPost, "ContactCreate", http.StatusOK, 12*time.Millisecond)
	m.ObserveReplay()
	m.ObserveSignatureRejection()
	m.ObserveSpamCheck("fast_rule", true)
	m.ObserveJournalError()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hookgate_http_requests_total{method="POST",route="ContactCreate",status="200"} 1`)
	assert.Contains(t, body, `hookgate_idempotency_replays_total 1`)
	assert.Contains(t, body, `hookgate_signature_rejections_total 1`)
	assert.Contains(t, body, `hookgate_spam_checks_total{method="fast_rule",verdict="spam"} 1`)
	assert.Contains(t, body, `hookgate_journal_write_errors_total 1`)
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodPost, "ContactCreate", http.StatusOK, time.Millisecond)
		m.ObserveReplay()
		m.ObserveSignatureRejection()
		m.ObserveSpamCheck("gpt", false)
		m.ObserveJournalError()
	})
}
