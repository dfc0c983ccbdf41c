package service

import (
	"context"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/models"
)

// RateFetcher retrieves raw, un-marked-up rates for a base currency.
// Implementations report failures as errors and never fall back themselves.
// A zero LastUpdated means the provider did not say when it last updated.
type RateFetcher interface {
	Name() string
	FetchLatest(ctx context.Context, baseCurrency string) (models.ExchangeResponse, error)
}

// Clock is the time source used for cache freshness decisions
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock
func SystemClock() Clock { return systemClock{} }
