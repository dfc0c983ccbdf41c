package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/logger"
	"github.com/dalfonso89/fx-rates-service/internal/models"
)

const maxResponseBytes = 1 << 20

// HTTPRateFetcher fetches rates from an open.er-api style "latest" endpoint:
// GET <base-url>/<BASE>.
type HTTPRateFetcher struct {
	configuration config.ExchangeRateProvider
	logger        logger.Logger
	httpClient    *http.Client
}

// latestRatesPayload is the provider's JSON body
type latestRatesPayload struct {
	Result             string              `json:"result"`
	ErrorType          string              `json:"error-type"`
	BaseCode           string              `json:"base_code"`
	TimeLastUpdateUnix int64               `json:"time_last_update_unix"`
	Rates              map[string]*float64 `json:"rates"`
}

// NewHTTPRateFetcher creates a fetcher. A nil httpClient gets a client bounded
// by the configured timeout.
func NewHTTPRateFetcher(configuration config.ExchangeRateProvider, logger logger.Logger, httpClient *http.Client) *HTTPRateFetcher {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: configuration.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPRateFetcher{
		configuration: configuration,
		logger:        logger,
		httpClient:    httpClient,
	}
}

// Name returns the provider name
func (fetcher *HTTPRateFetcher) Name() string {
	return fetcher.configuration.Name
}

// FetchLatest fetches the latest raw rates for baseCurrency
func (fetcher *HTTPRateFetcher) FetchLatest(ctx context.Context, baseCurrency string) (models.ExchangeResponse, error) {
	requestURL := fetcher.buildURL(baseCurrency)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.ExchangeResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	fetcher.logger.WithFields(logger.Fields{"provider": fetcher.Name(), "base": baseCurrency}).Debug("Fetching latest rates")

	response, err := fetcher.httpClient.Do(request)
	if err != nil {
		return models.ExchangeResponse{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return models.ExchangeResponse{}, &ServiceError{
			Type:    ErrorTypeProviderFailed,
			Message: fmt.Sprintf("provider %s returned status %d", fetcher.Name(), response.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return models.ExchangeResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return fetcher.parseResponse(body, baseCurrency)
}

// buildURL appends the base currency as the final path segment
func (fetcher *HTTPRateFetcher) buildURL(baseCurrency string) string {
	return strings.TrimRight(fetcher.configuration.BaseURL, "/") + "/" + url.PathEscape(baseCurrency)
}

// parseResponse decodes the provider body into a raw ExchangeResponse
func (fetcher *HTTPRateFetcher) parseResponse(body []byte, baseCurrency string) (models.ExchangeResponse, error) {
	var payload latestRatesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.ExchangeResponse{}, &ServiceError{
			Type:    ErrorTypeInvalidResponse,
			Message: fmt.Sprintf("failed to parse %s response", fetcher.Name()),
			Cause:   err,
		}
	}

	if payload.Result == "error" {
		return models.ExchangeResponse{}, &ServiceError{
			Type:    ErrorTypeProviderFailed,
			Message: fmt.Sprintf("provider %s reported error %q", fetcher.Name(), payload.ErrorType),
		}
	}

	if len(payload.Rates) == 0 {
		return models.ExchangeResponse{}, &ServiceError{
			Type:    ErrorTypeInvalidResponse,
			Message: fmt.Sprintf("provider %s returned no rates", fetcher.Name()),
		}
	}

	base := baseCurrency
	if payload.BaseCode != "" {
		base = strings.ToUpper(payload.BaseCode)
	}
	if base != baseCurrency {
		return models.ExchangeResponse{}, &ServiceError{
			Type:    ErrorTypeInvalidResponse,
			Message: fmt.Sprintf("provider %s answered for base %s, requested %s", fetcher.Name(), base, baseCurrency),
		}
	}

	rates := make(map[string]float64, len(payload.Rates))
	for code, rate := range payload.Rates {
		if rate == nil || math.IsNaN(*rate) || math.IsInf(*rate, 0) || *rate <= 0 {
			return models.ExchangeResponse{}, &ServiceError{
				Type:    ErrorTypeInvalidResponse,
				Message: fmt.Sprintf("provider %s returned invalid rate for %s", fetcher.Name(), code),
			}
		}
		rates[strings.ToUpper(code)] = *rate
	}

	// zero when the provider omits it; the caller stamps it with its clock
	var lastUpdated time.Time
	if payload.TimeLastUpdateUnix > 0 {
		lastUpdated = time.Unix(payload.TimeLastUpdateUnix, 0).UTC()
	}

	return models.ExchangeResponse{
		Base:        base,
		Rates:       rates,
		LastUpdated: lastUpdated,
		Provider:    fetcher.Name(),
	}, nil
}
