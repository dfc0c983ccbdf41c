package models

import "time"

// CurrencyInfo is static reference data for one supported currency
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

// ExchangeResponse is a rate snapshot; Rates are always relative to Base.
type ExchangeResponse struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	LastUpdated time.Time          `json:"lastUpdated"`
	Provider    string             `json:"provider"`
	Degraded    bool               `json:"degraded"`
}

type CacheEntry struct {
	Data      ExchangeResponse
	Timestamp time.Time
}

type ConversionResult struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"convertedAmount"`
	Rate            float64 `json:"rate"`
	Fee             float64 `json:"fee"`
	Provider        string  `json:"provider"`
	Degraded        bool    `json:"degraded"`
}

type FormattedRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Flag     string  `json:"flag"`
}

type FormattedRatesResponse struct {
	Base        string          `json:"base"`
	Rates       []FormattedRate `json:"rates"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Provider    string          `json:"provider"`
	Degraded    bool            `json:"degraded"`
}

// MarkupInfo discloses the markup applied to every quoted rate
type MarkupInfo struct {
	BasisPoints int     `json:"basisPoints"`
	Percentage  float64 `json:"percentage"`
	Multiplier  float64 `json:"multiplier"`
	Description string  `json:"description"`
}

type CacheStatus struct {
	Base      string    `json:"base"`
	FetchedAt time.Time `json:"fetchedAt"`
	Age       string    `json:"age"`
	Fresh     bool      `json:"fresh"`
	Provider  string    `json:"provider"`
	Degraded  bool      `json:"degraded"`
}

type HealthCheck struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Uptime      string    `json:"uptime"`
	Provider    string    `json:"provider"`
	CachedBases int       `json:"cachedBases"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
