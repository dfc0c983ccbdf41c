package service

import (
	"context"
	"fmt"
	"maps"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/currency"
	"github.com/dalfonso89/fx-rates-service/internal/logger"
	"github.com/dalfonso89/fx-rates-service/internal/markup"
	"github.com/dalfonso89/fx-rates-service/internal/metrics"
	"github.com/dalfonso89/fx-rates-service/internal/models"

	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix      = "rates_"
	defaultFetchTimeout = 10 * time.Second
)

// Option customises a RatesService
type Option func(*RatesService)

// WithFetcher replaces the HTTP provider
func WithFetcher(fetcher RateFetcher) Option {
	return func(ratesService *RatesService) { ratesService.fetcher = fetcher }
}

// WithHTTPClient builds the HTTP provider on top of httpClient
func WithHTTPClient(httpClient *http.Client) Option {
	return func(ratesService *RatesService) {
		ratesService.fetcher = NewHTTPRateFetcher(ratesService.configuration.ExchangeRateProvider, ratesService.logger, httpClient)
	}
}

// WithClock replaces the wall clock used for cache freshness
func WithClock(clock Clock) Option {
	return func(ratesService *RatesService) { ratesService.clock = clock }
}

// WithMetrics records cache, fetch and conversion metrics
func WithMetrics(ratesMetrics *metrics.RatesMetrics) Option {
	return func(ratesService *RatesService) { ratesService.metrics = ratesMetrics }
}

// WithMarkupBasisPoints overrides the configured markup
func WithMarkupBasisPoints(basisPoints int) Option {
	return func(ratesService *RatesService) { ratesService.markupBasisPoints = basisPoints }
}

// RatesService serves marked-up exchange rates from a per-base TTL cache,
// falling back to stale entries or synthesized rates when the provider fails.
// It is safe for concurrent use.
type RatesService struct {
	configuration     *config.Config
	logger            logger.Logger
	fetcher           RateFetcher
	clock             Clock
	metrics           *metrics.RatesMetrics
	markupBasisPoints int
	cacheTTL          time.Duration
	fetchTimeout      time.Duration
	defaultBase       string

	cacheMutex sync.RWMutex
	cache      map[string]models.CacheEntry

	singleFlightGroup singleflight.Group
}

func NewRatesService(configuration *config.Config, logger logger.Logger, options ...Option) *RatesService {
	ratesService := &RatesService{
		configuration:     configuration,
		logger:            logger,
		clock:             SystemClock(),
		markupBasisPoints: configuration.MarkupBasisPoints,
		cacheTTL:          configuration.RatesCacheTTL,
		fetchTimeout:      configuration.ExchangeRateProvider.Timeout,
		defaultBase:       currency.Normalize(configuration.DefaultBaseCurrency),
		cache:             make(map[string]models.CacheEntry),
	}

	for _, option := range options {
		option(ratesService)
	}

	if ratesService.fetcher == nil {
		ratesService.fetcher = NewHTTPRateFetcher(configuration.ExchangeRateProvider, logger, nil)
	}
	if ratesService.defaultBase == "" {
		ratesService.defaultBase = "USD"
	}
	if ratesService.fetchTimeout <= 0 {
		ratesService.fetchTimeout = defaultFetchTimeout
	}

	return ratesService
}

func cacheKey(baseCurrency string) string {
	return cacheKeyPrefix + baseCurrency
}

// GetExchangeRates returns marked-up rates for baseCurrency (the configured
// default when empty). It never fails: provider errors degrade to the stale
// cache entry or to fallback rates, both flagged Degraded.
func (ratesService *RatesService) GetExchangeRates(requestContext context.Context, baseCurrency string) models.ExchangeResponse {
	baseCurrency = ratesService.normalizeBase(baseCurrency)
	key := cacheKey(baseCurrency)

	if entry, found := ratesService.lookup(key); found && ratesService.isFresh(entry) {
		ratesService.metrics.CacheHit()
		return cloneResponse(entry.Data)
	}
	ratesService.metrics.CacheMiss()

	result, _, _ := ratesService.singleFlightGroup.Do(key, func() (interface{}, error) {
		return ratesService.refresh(requestContext, baseCurrency, key), nil
	})

	return cloneResponse(result.(models.ExchangeResponse))
}

// refresh fetches baseCurrency and updates the cache, or degrades
func (ratesService *RatesService) refresh(requestContext context.Context, baseCurrency, key string) models.ExchangeResponse {
	// another flight may have filled the entry between the lookup and Do
	if entry, found := ratesService.lookup(key); found && ratesService.isFresh(entry) {
		return entry.Data
	}

	// coalesced callers share this fetch, so one caller's cancellation must not fail the rest
	fetchContext, cancel := context.WithTimeout(context.WithoutCancel(requestContext), ratesService.fetchTimeout)
	defer cancel()

	started := time.Now()
	raw, fetchError := ratesService.fetcher.FetchLatest(fetchContext, baseCurrency)
	elapsed := time.Since(started)

	if fetchError == nil {
		ratesService.metrics.ObserveFetch(ratesService.fetcher.Name(), metrics.OutcomeSuccess, elapsed)

		lastUpdated := raw.LastUpdated
		if lastUpdated.IsZero() {
			lastUpdated = ratesService.clock.Now().UTC()
		}

		response := models.ExchangeResponse{
			Base:        baseCurrency,
			Rates:       markup.Apply(raw.Rates, ratesService.markupBasisPoints),
			LastUpdated: lastUpdated,
			Provider:    raw.Provider,
		}
		ratesService.store(key, response)

		ratesService.logger.WithFields(logger.Fields{
			"base":     baseCurrency,
			"provider": response.Provider,
			"rates":    len(response.Rates),
		}).Info("Fetched exchange rates")
		return response
	}

	ratesService.metrics.ObserveFetch(ratesService.fetcher.Name(), metrics.OutcomeFailure, elapsed)
	fields := logger.Fields{
		"base":       baseCurrency,
		"provider":   ratesService.fetcher.Name(),
		"error_type": classifyError(fetchError).String(),
		"error":      fetchError.Error(),
	}

	if entry, found := ratesService.lookup(key); found {
		ratesService.metrics.Fallback(metrics.FallbackStale)
		fields["cached_at"] = entry.Timestamp
		ratesService.logger.WithFields(fields).Warn("Provider fetch failed, serving stale rates")

		stale := entry.Data
		stale.Degraded = true
		return stale
	}

	ratesService.metrics.Fallback(metrics.FallbackMock)
	ratesService.logger.WithFields(fields).Warn("Provider fetch failed with nothing cached, serving fallback rates")
	return ratesService.fallbackResponse(baseCurrency, key)
}

// fallbackResponse synthesizes marked-up rates from the illustrative table.
// Only bases the table can quote are cached, keeping the cache bounded by
// the reference table.
func (ratesService *RatesService) fallbackResponse(baseCurrency, key string) models.ExchangeResponse {
	rawRates, quotable := currency.FallbackRates(baseCurrency)

	response := models.ExchangeResponse{
		Base:        baseCurrency,
		Rates:       markup.Apply(rawRates, ratesService.markupBasisPoints),
		LastUpdated: ratesService.clock.Now().UTC(),
		Provider:    currency.FallbackProvider,
		Degraded:    true,
	}
	if quotable {
		ratesService.store(key, response)
	}
	return response
}

// ConvertCurrency converts amount using the marked-up fromCurrency rates.
// Fee is informational and already reflected in the rate.
func (ratesService *RatesService) ConvertCurrency(requestContext context.Context, amount float64, fromCurrency, toCurrency string) (models.ConversionResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		ratesService.metrics.Conversion(metrics.ConversionInvalidAmount)
		return models.ConversionResult{}, &ServiceError{
			Type:    ErrorTypeInvalidAmount,
			Message: fmt.Sprintf("amount must be a finite, non-negative number, got %v", amount),
			Cause:   ErrInvalidAmount,
		}
	}

	fromCurrency = ratesService.normalizeBase(fromCurrency)
	toCurrency = currency.Normalize(toCurrency)

	exchangeRates := ratesService.GetExchangeRates(requestContext, fromCurrency)
	rate, found := exchangeRates.Rates[toCurrency]
	if !found {
		ratesService.metrics.Conversion(metrics.ConversionRateUnavailable)
		return models.ConversionResult{}, &ServiceError{
			Type:    ErrorTypeRateUnavailable,
			Message: fmt.Sprintf("no rate from %s to %s", fromCurrency, toCurrency),
			Cause:   ErrRateUnavailable,
		}
	}

	ratesService.metrics.Conversion(metrics.ConversionOK)
	return models.ConversionResult{
		From:            fromCurrency,
		To:              toCurrency,
		Amount:          amount,
		ConvertedAmount: amount * rate,
		Rate:            rate,
		Fee:             markup.Fee(amount, ratesService.markupBasisPoints),
		Provider:        exchangeRates.Provider,
		Degraded:        exchangeRates.Degraded,
	}, nil
}

// GetFormattedRates joins rates for baseCurrency with the reference table,
// in table order, skipping the base itself and currencies without a rate.
func (ratesService *RatesService) GetFormattedRates(requestContext context.Context, baseCurrency string) models.FormattedRatesResponse {
	exchangeRates := ratesService.GetExchangeRates(requestContext, baseCurrency)

	formatted := make([]models.FormattedRate, 0, len(exchangeRates.Rates))
	for _, info := range currency.Supported() {
		if info.Code == exchangeRates.Base {
			continue
		}
		rate, found := exchangeRates.Rates[info.Code]
		if !found {
			continue
		}
		formatted = append(formatted, models.FormattedRate{
			Currency: info.Code,
			Rate:     rate,
			Name:     info.Name,
			Symbol:   info.Symbol,
			Flag:     info.Flag,
		})
	}

	return models.FormattedRatesResponse{
		Base:        exchangeRates.Base,
		Rates:       formatted,
		LastUpdated: exchangeRates.LastUpdated,
		Provider:    exchangeRates.Provider,
		Degraded:    exchangeRates.Degraded,
	}
}

// GetCurrencyInfo looks up reference data for code
func (ratesService *RatesService) GetCurrencyInfo(code string) (models.CurrencyInfo, bool) {
	return currency.Lookup(code)
}

// GetSupportedCurrencies returns the reference table in display order
func (ratesService *RatesService) GetSupportedCurrencies() []models.CurrencyInfo {
	return currency.Supported()
}

// MarkupInfo describes the configured markup
func (ratesService *RatesService) MarkupInfo() models.MarkupInfo {
	return markup.Info(ratesService.markupBasisPoints)
}

// ProviderName returns the upstream provider name
func (ratesService *RatesService) ProviderName() string {
	return ratesService.fetcher.Name()
}

// ClearCache drops every cached entry
func (ratesService *RatesService) ClearCache() {
	ratesService.cacheMutex.Lock()
	cleared := len(ratesService.cache)
	ratesService.cache = make(map[string]models.CacheEntry)
	ratesService.cacheMutex.Unlock()

	ratesService.metrics.SetCachedBases(0)
	ratesService.logger.WithFields(logger.Fields{"entries": cleared}).Info("Rates cache cleared")
}

// CacheStatus reports freshness per cached base currency, sorted by base
func (ratesService *RatesService) CacheStatus() []models.CacheStatus {
	now := ratesService.clock.Now()

	ratesService.cacheMutex.RLock()
	statuses := make([]models.CacheStatus, 0, len(ratesService.cache))
	for _, entry := range ratesService.cache {
		age := now.Sub(entry.Timestamp)
		statuses = append(statuses, models.CacheStatus{
			Base:      entry.Data.Base,
			FetchedAt: entry.Timestamp,
			Age:       age.Truncate(time.Second).String(),
			Fresh:     age < ratesService.cacheTTL,
			Provider:  entry.Data.Provider,
			Degraded:  entry.Data.Degraded,
		})
	}
	ratesService.cacheMutex.RUnlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Base < statuses[j].Base })
	return statuses
}

func (ratesService *RatesService) normalizeBase(baseCurrency string) string {
	baseCurrency = currency.Normalize(baseCurrency)
	if baseCurrency == "" {
		return ratesService.defaultBase
	}
	return baseCurrency
}

func (ratesService *RatesService) lookup(key string) (models.CacheEntry, bool) {
	ratesService.cacheMutex.RLock()
	defer ratesService.cacheMutex.RUnlock()
	entry, found := ratesService.cache[key]
	return entry, found
}

func (ratesService *RatesService) store(key string, data models.ExchangeResponse) {
	ratesService.cacheMutex.Lock()
	ratesService.cache[key] = models.CacheEntry{Data: data, Timestamp: ratesService.clock.Now()}
	cached := len(ratesService.cache)
	ratesService.cacheMutex.Unlock()

	ratesService.metrics.SetCachedBases(cached)
}

func (ratesService *RatesService) isFresh(entry models.CacheEntry) bool {
	return ratesService.clock.Now().Sub(entry.Timestamp) < ratesService.cacheTTL
}

func cloneResponse(response models.ExchangeResponse) models.ExchangeResponse {
	response.Rates = maps.Clone(response.Rates)
	return response
}
