package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	m.RecordRequest("/api/users/me", http.MethodGet, http.StatusOK, time.Millisecond)
	m.RecordRequest("/api/users/me", http.MethodGet, http.StatusOK, time.Millisecond)
	m.RecordRequest("/api/users/me", http.MethodGet, http.StatusUnauthorized, time.Millisecond)
	m.RecordError("/api/users/me", http.MethodGet, "UNAUTHORIZED")

	assert.EqualValues(t, 2, m.RequestCount("/api/users/me", http.MethodGet, http.StatusOK))
	assert.EqualValues(t, 1, m.RequestCount("/api/users/me", http.MethodGet, http.StatusUnauthorized))
	assert.EqualValues(t, 1, m.ErrorCount("/api/users/me", http.MethodGet, "UNAUTHORIZED"))
	assert.Zero(t, m.RequestCount("/api/users/me", http.MethodPost, http.StatusOK))
}

func TestMetricsAuthFlows(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	m.RecordAuthFlow(FlowSignup, OutcomeAccepted)
	m.RecordAuthFlow(FlowSignin, OutcomeRejected)
	m.RecordAuthFlow(FlowSignin, OutcomeRejected)

	assert.EqualValues(t, 1, m.AuthFlowCount(FlowSignup, OutcomeAccepted))
	assert.EqualValues(t, 2, m.AuthFlowCount(FlowSignin, OutcomeRejected))
	assert.Zero(t, m.AuthFlowCount(FlowGuard, OutcomeRejected))
}

func TestMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordRequest("/", http.MethodGet, http.StatusOK, 0)
	m.RecordError("/", http.MethodGet, "X")
	m.RecordAuthFlow(FlowGuard, OutcomeRejected)
	assert.Zero(t, m.RequestCount("/", http.MethodGet, http.StatusOK))
}
