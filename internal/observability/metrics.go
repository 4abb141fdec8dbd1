package observability

import (
	"strconv"
	"sync"
	"time"
)

// Auth flow names used as metric keys.
const (
	FlowSignup = "signup"
	FlowSignin = "signin"
	FlowGuard  = "guard"
)

// Auth flow outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics keeps in-memory counters for HTTP traffic and for the
// authentication flows the service exists to serve. All methods are nil-safe
// so components can hold an optional *Metrics.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	authFlows    map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		authFlows:    make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAuthFlow counts an outcome of one of the auth flows: an accepted or
// rejected signup, signin or guarded-route access.
func (m *Metrics) RecordAuthFlow(flow, outcome string) {
	if m == nil {
		return
	}
	key := flow + "|" + outcome
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authFlows[key]++
}

// RequestCount returns the number of recorded requests for a path, method
// and response status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[pathKey(path, method, status)]
}

// ErrorCount returns the number of recorded errors for a path, method and
// error code.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[path+"|"+method+"|"+code]
}

// AuthFlowCount returns the number of recorded outcomes for an auth flow.
func (m *Metrics) AuthFlowCount(flow, outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authFlows[flow+"|"+outcome]
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
