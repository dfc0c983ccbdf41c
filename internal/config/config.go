package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ExchangeRateProvider describes the upstream "latest rates" API
type ExchangeRateProvider struct {
	Name    string        `env:"EXCHANGE_RATE_PROVIDER_NAME" env-default:"open.er-api"`
	BaseURL string        `env:"EXCHANGE_RATE_API_BASE_URL" env-default:"https://open.er-api.com/v6/latest"`
	Timeout time.Duration `env:"EXCHANGE_RATE_API_TIMEOUT" env-default:"10s"`
}

// Config holds all configuration for the application
type Config struct {
	Port            string        `env:"PORT" env-default:"8081"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`

	// Exchange rates
	ExchangeRateProvider ExchangeRateProvider
	RatesCacheTTL        time.Duration `env:"RATES_CACHE_TTL" env-default:"1h"`
	MarkupBasisPoints    int           `env:"MARKUP_BASIS_POINTS" env-default:"25"`
	DefaultBaseCurrency  string        `env:"DEFAULT_BASE_CURRENCY" env-default:"USD"`

	// Rate limiting
	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"60s"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	configuration := &Config{}
	if err := cleanenv.ReadEnv(configuration); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	configuration.DefaultBaseCurrency = strings.ToUpper(strings.TrimSpace(configuration.DefaultBaseCurrency))

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

// Validate reports the first invalid setting
func (configuration *Config) Validate() error {
	switch {
	case configuration.ExchangeRateProvider.BaseURL == "":
		return errors.New("EXCHANGE_RATE_API_BASE_URL must not be empty")
	case configuration.ExchangeRateProvider.Timeout <= 0:
		return errors.New("EXCHANGE_RATE_API_TIMEOUT must be positive")
	case configuration.RatesCacheTTL <= 0:
		return errors.New("RATES_CACHE_TTL must be positive")
	case configuration.MarkupBasisPoints < 0:
		return fmt.Errorf("MARKUP_BASIS_POINTS must not be negative, got %d", configuration.MarkupBasisPoints)
	case len(configuration.DefaultBaseCurrency) != 3:
		return fmt.Errorf("DEFAULT_BASE_CURRENCY must be a 3-letter code, got %q", configuration.DefaultBaseCurrency)
	}

	if configuration.RateLimitEnabled {
		if configuration.RateLimitRequests <= 0 || configuration.RateLimitBurst <= 0 {
			return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
		}
		if configuration.RateLimitWindow <= 0 {
			return errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
		}
	}

	return nil
}
