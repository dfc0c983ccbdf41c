package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Fallback kinds
const (
	FallbackStale = "stale"
	FallbackMock  = "mock"
)

// Conversion results
const (
	ConversionOK              = "ok"
	ConversionRateUnavailable = "rate_unavailable"
	ConversionInvalidAmount   = "invalid_amount"
)

// RatesMetrics holds the exchange rate service metrics. A nil *RatesMetrics
// is valid and records nothing.
type RatesMetrics struct {
	CacheLookupsTotal    *prometheus.CounterVec
	ProviderFetchTotal   *prometheus.CounterVec
	ProviderFetchTime    prometheus.Histogram
	FallbacksTotal       *prometheus.CounterVec
	ConversionsTotal     *prometheus.CounterVec
	CachedBaseCurrencies prometheus.Gauge
}

// NewRatesMetrics registers the metrics with registerer
func NewRatesMetrics(registerer prometheus.Registerer) *RatesMetrics {
	factory := promauto.With(registerer)

	return &RatesMetrics{
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rates_cache_lookups_total",
				Help: "Rate cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		ProviderFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rates_provider_fetch_total",
				Help: "Provider fetch attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderFetchTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fx_rates_provider_fetch_duration_seconds",
				Help:    "Provider fetch latency",
				Buckets: prometheus.DefBuckets,
			},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rates_fallbacks_total",
				Help: "Degraded responses served, by kind (stale or mock)",
			},
			[]string{"kind"},
		),
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_conversions_total",
				Help: "Currency conversions by result",
			},
			[]string{"result"},
		),
		CachedBaseCurrencies: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fx_rates_cached_base_currencies",
				Help: "Number of base currencies currently cached",
			},
		),
	}
}

func (m *RatesMetrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues("hit").Inc()
}

func (m *RatesMetrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues("miss").Inc()
}

func (m *RatesMetrics) ObserveFetch(provider, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ProviderFetchTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderFetchTime.Observe(duration.Seconds())
}

func (m *RatesMetrics) Fallback(kind string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(kind).Inc()
}

func (m *RatesMetrics) Conversion(result string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(result).Inc()
}

func (m *RatesMetrics) SetCachedBases(count int) {
	if m == nil {
		return
	}
	m.CachedBaseCurrencies.Set(float64(count))
}
