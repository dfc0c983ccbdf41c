package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultUSDRates are the raw rates MockExchangeRateServer quotes for USD
var DefaultUSDRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110.0,
	"CAD": 1.25,
	"AUD": 1.35,
}

// MockExchangeRateServer emulates an open.er-api style provider:
// GET /<BASE> answers with {result, base_code, time_last_update_unix, rates}.
type MockExchangeRateServer struct {
	server     *httptest.Server
	requests   atomic.Int64
	mu         sync.RWMutex
	rates      map[string]map[string]float64
	statusCode int
	updatedAt  int64
}

// NewMockExchangeRateServer creates a server quoting DefaultUSDRates for USD
func NewMockExchangeRateServer() *MockExchangeRateServer {
	mock := &MockExchangeRateServer{
		rates:      map[string]map[string]float64{"USD": DefaultUSDRates},
		statusCode: http.StatusOK,
		updatedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix(),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// SetRates sets the quote for base
func (m *MockExchangeRateServer) SetRates(base string, rates map[string]float64) {
	m.mu.Lock()
	m.rates[base] = rates
	m.mu.Unlock()
}

// FailWith makes every subsequent request answer with statusCode
func (m *MockExchangeRateServer) FailWith(statusCode int) {
	m.mu.Lock()
	m.statusCode = statusCode
	m.mu.Unlock()
}

// Recover restores normal answers
func (m *MockExchangeRateServer) Recover() {
	m.FailWith(http.StatusOK)
}

// Requests returns how many requests the server has received
func (m *MockExchangeRateServer) Requests() int64 {
	return m.requests.Load()
}

// UpdatedAt is the time_last_update_unix value the server reports
func (m *MockExchangeRateServer) UpdatedAt() time.Time {
	return time.Unix(m.updatedAt, 0).UTC()
}

func (m *MockExchangeRateServer) handler(w http.ResponseWriter, r *http.Request) {
	m.requests.Add(1)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mu.RLock()
	statusCode := m.statusCode
	base := strings.ToUpper(strings.Trim(r.URL.Path, "/"))
	rates, found := m.rates[base]
	m.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(`{"result":"error","error-type":"unavailable"}`))
		return
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"result":     "error",
			"error-type": "unsupported-code",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"result":                "success",
		"base_code":             base,
		"time_last_update_unix": m.updatedAt,
		"rates":                 rates,
	})
}

// URL returns the base URL of the mock server
func (m *MockExchangeRateServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockExchangeRateServer) Close() {
	m.server.Close()
}
