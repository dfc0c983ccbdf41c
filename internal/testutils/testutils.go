package testutils

import (
	"io"
	"sync"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/logger"
)

// MockLogger creates a logger that discards output
func MockLogger() logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:            "8081",
		LogLevel:        "debug",
		ShutdownTimeout: 5 * time.Second,

		ExchangeRateProvider: config.ExchangeRateProvider{
			Name:    "test-provider",
			BaseURL: "https://api.test.com/v6/latest",
			Timeout: 2 * time.Second,
		},
		RatesCacheTTL:       time.Hour,
		MarkupBasisPoints:   25,
		DefaultBaseCurrency: "USD",

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,
	}
}

// MockConfigWithProvider points the provider at baseURL
func MockConfigWithProvider(baseURL string) *config.Config {
	cfg := MockConfig()
	cfg.ExchangeRateProvider.BaseURL = baseURL
	return cfg
}

// FakeClock is a manually advanced clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts a clock at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Advance moves the clock forward by duration
func (clock *FakeClock) Advance(duration time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(duration)
	clock.mu.Unlock()
}
