package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/models"
	"github.com/dalfonso89/fx-rates-service/internal/testutils"
)

// IntegrationTestSuite runs the full router behind a real HTTP server
type IntegrationTestSuite struct {
	*handlerTestSuite
	server *httptest.Server
}

func NewIntegrationTestSuite(t *testing.T, configure func(*config.Config)) *IntegrationTestSuite {
	t.Helper()

	base := newHandlerTestSuite(t, configure)
	server := httptest.NewServer(base.router)
	t.Cleanup(server.Close)

	return &IntegrationTestSuite{handlerTestSuite: base, server: server}
}

func (its *IntegrationTestSuite) getJSON(path string, target interface{}) (int, error) {
	response, err := http.Get(its.server.URL + path)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if target != nil && response.StatusCode == http.StatusOK {
		if err := json.NewDecoder(response.Body).Decode(target); err != nil {
			return response.StatusCode, err
		}
	}
	return response.StatusCode, nil
}

// TestConcurrentRatesRequests hits a cold cache from many goroutines and
// expects a single upstream fetch with every caller seeing the same data.
func TestConcurrentRatesRequests(t *testing.T) {
	suite := NewIntegrationTestSuite(t, nil)

	const (
		numGoroutines        = 50
		requestsPerGoroutine = 5
	)

	var wg sync.WaitGroup
	results := make(chan models.ExchangeResponse, numGoroutines*requestsPerGoroutine)
	errs := make(chan error, numGoroutines*requestsPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				var rates models.ExchangeResponse
				status, err := suite.getJSON("/api/v1/rates/USD", &rates)
				if err != nil {
					errs <- err
					continue
				}
				if status != http.StatusOK {
					errs <- fmt.Errorf("status %d", status)
					continue
				}
				results <- rates
			}
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("request failed: %v", err)
	}

	count := 0
	for rates := range results {
		count++
		if rates.Degraded || rates.Base != "USD" || len(rates.Rates) != len(testutils.DefaultUSDRates) {
			t.Errorf("unexpected response %+v", rates)
		}
	}
	if count != numGoroutines*requestsPerGoroutine {
		t.Errorf("responses = %d, want %d", count, numGoroutines*requestsPerGoroutine)
	}

	if requests := suite.provider.Requests(); requests != 1 {
		t.Errorf("provider requests = %d, want exactly 1", requests)
	}
}

// TestConcurrentMixedEndpoints exercises conversions and rates for several
// bases at once; each base is fetched at most once.
func TestConcurrentMixedEndpoints(t *testing.T) {
	suite := NewIntegrationTestSuite(t, nil)
	suite.provider.SetRates("EUR", map[string]float64{"EUR": 1, "USD": 1.18, "GBP": 0.86})
	suite.provider.SetRates("GBP", map[string]float64{"GBP": 1, "USD": 1.37, "EUR": 1.16})

	paths := []string{
		"/api/v1/rates/USD",
		"/api/v1/rates/EUR",
		"/api/v1/rates/GBP/formatted",
		"/api/v1/convert?from=EUR&to=USD&amount=10",
		"/api/v1/convert?from=GBP&to=EUR&amount=3.5",
		"/api/v1/currencies",
	}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			status, err := suite.getJSON(path, nil)
			if err != nil || status != http.StatusOK {
				t.Errorf("GET %s = %d, %v", path, status, err)
			}
		}(paths[i%len(paths)])
	}
	wg.Wait()

	if requests := suite.provider.Requests(); requests != 3 {
		t.Errorf("provider requests = %d, want one per base (3)", requests)
	}
	if statuses := suite.ratesService.CacheStatus(); len(statuses) != 3 {
		t.Errorf("cached bases = %d, want 3", len(statuses))
	}
}

// TestProviderOutageServesStale walks the cache through expiry while the
// provider is down and back up again.
func TestProviderOutageServesStale(t *testing.T) {
	suite := NewIntegrationTestSuite(t, func(cfg *config.Config) {
		cfg.RatesCacheTTL = 50 * time.Millisecond
	})

	var fresh models.ExchangeResponse
	if _, err := suite.getJSON("/api/v1/rates/USD", &fresh); err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	suite.provider.FailWith(http.StatusBadGateway)
	time.Sleep(80 * time.Millisecond)

	var stale models.ExchangeResponse
	if _, err := suite.getJSON("/api/v1/rates/USD", &stale); err != nil {
		t.Fatalf("stale fetch: %v", err)
	}
	if !stale.Degraded {
		t.Error("Degraded = false during outage, want true")
	}
	if stale.Rates["EUR"] != fresh.Rates["EUR"] || stale.Provider != fresh.Provider {
		t.Errorf("stale response %+v differs from cached %+v", stale, fresh)
	}

	suite.provider.Recover()

	var recovered models.ExchangeResponse
	if _, err := suite.getJSON("/api/v1/rates/USD", &recovered); err != nil {
		t.Fatalf("recovered fetch: %v", err)
	}
	if recovered.Degraded {
		t.Error("Degraded = true after recovery, want false")
	}
	if requests := suite.provider.Requests(); requests != 3 {
		t.Errorf("provider requests = %d, want 3", requests)
	}
}
