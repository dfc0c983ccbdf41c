package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config) bool
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			expected: func(cfg *Config) bool {
				return cfg.Port == "8081" &&
					cfg.LogLevel == "info" &&
					cfg.ExchangeRateProvider.Name == "open.er-api" &&
					cfg.ExchangeRateProvider.BaseURL == "https://open.er-api.com/v6/latest" &&
					cfg.ExchangeRateProvider.Timeout == 10*time.Second &&
					cfg.RatesCacheTTL == time.Hour &&
					cfg.MarkupBasisPoints == 25 &&
					cfg.DefaultBaseCurrency == "USD" &&
					cfg.RateLimitEnabled &&
					cfg.RateLimitRequests == 100 &&
					cfg.RateLimitWindow == 60*time.Second &&
					cfg.RateLimitBurst == 10 &&
					cfg.ShutdownTimeout == 30*time.Second
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"PORT":                        "9090",
				"LOG_LEVEL":                   "debug",
				"EXCHANGE_RATE_PROVIDER_NAME": "custom",
				"EXCHANGE_RATE_API_BASE_URL":  "https://rates.example.com/latest",
				"EXCHANGE_RATE_API_TIMEOUT":   "3s",
				"RATES_CACHE_TTL":             "15m",
				"MARKUP_BASIS_POINTS":         "50",
				"DEFAULT_BASE_CURRENCY":       "eur",
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS":         "200",
				"RATE_LIMIT_WINDOW":           "2m",
				"RATE_LIMIT_BURST":            "20",
			},
			expected: func(cfg *Config) bool {
				return cfg.Port == "9090" &&
					cfg.LogLevel == "debug" &&
					cfg.ExchangeRateProvider.Name == "custom" &&
					cfg.ExchangeRateProvider.BaseURL == "https://rates.example.com/latest" &&
					cfg.ExchangeRateProvider.Timeout == 3*time.Second &&
					cfg.RatesCacheTTL == 15*time.Minute &&
					cfg.MarkupBasisPoints == 50 &&
					cfg.DefaultBaseCurrency == "EUR" &&
					!cfg.RateLimitEnabled &&
					cfg.RateLimitRequests == 200 &&
					cfg.RateLimitWindow == 2*time.Minute &&
					cfg.RateLimitBurst == 20
			},
		},
		{
			name: "zero markup is allowed",
			envVars: map[string]string{
				"MARKUP_BASIS_POINTS": "0",
			},
			expected: func(cfg *Config) bool {
				return cfg.MarkupBasisPoints == 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.expected(cfg) {
				t.Errorf("Load() returned unexpected configuration: %+v", cfg)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
	}{
		{
			name:    "negative markup",
			envVars: map[string]string{"MARKUP_BASIS_POINTS": "-5"},
			wantErr: "MARKUP_BASIS_POINTS",
		},
		{
			name:    "zero cache ttl",
			envVars: map[string]string{"RATES_CACHE_TTL": "0s"},
			wantErr: "RATES_CACHE_TTL",
		},
		{
			name:    "bad default base",
			envVars: map[string]string{"DEFAULT_BASE_CURRENCY": "DOLLAR"},
			wantErr: "DEFAULT_BASE_CURRENCY",
		},
		{
			name:    "malformed duration",
			envVars: map[string]string{"EXCHANGE_RATE_API_TIMEOUT": "soon"},
			wantErr: "failed to read environment",
		},
		{
			name: "rate limit without burst",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED": "true",
				"RATE_LIMIT_BURST":   "0",
			},
			wantErr: "RATE_LIMIT_BURST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
