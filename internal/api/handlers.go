package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/fx-rates-service/internal/logger"
	"github.com/dalfonso89/fx-rates-service/internal/middleware"
	"github.com/dalfonso89/fx-rates-service/internal/models"
	"github.com/dalfonso89/fx-rates-service/internal/ratelimit"
	"github.com/dalfonso89/fx-rates-service/internal/service"
)

const version = "1.0.0"

// HandlerConfig contains all dependencies for the Handlers
type HandlerConfig struct {
	Logger         logger.Logger
	RatesService   *service.RatesService
	RateLimiter    *ratelimit.Limiter
	MetricsHandler http.Handler
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger         logger.Logger
	startTime      time.Time
	ratesService   *service.RatesService
	rateLimiter    *ratelimit.Limiter
	metricsHandler http.Handler
}

// NewHandlers creates a new handlers instance with all dependencies
func NewHandlers(config HandlerConfig) *Handlers {
	return &Handlers{
		logger:         config.Logger,
		startTime:      time.Now(),
		ratesService:   config.RatesService,
		rateLimiter:    config.RateLimiter,
		metricsHandler: config.MetricsHandler,
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(handlers.corsMiddleware())

	router.GET("/health", handlers.HealthCheck)
	if handlers.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(handlers.metricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	if handlers.rateLimiter != nil {
		apiV1.Use(handlers.rateLimitMiddleware())
	}
	{
		apiV1.GET("/rates", handlers.GetRates)
		apiV1.GET("/rates/:base", handlers.GetRatesByBase)
		apiV1.GET("/rates/:base/formatted", handlers.GetFormattedRates)
		apiV1.GET("/convert", handlers.Convert)

		apiV1.GET("/currencies", handlers.GetCurrencies)
		apiV1.GET("/currencies/:code", handlers.GetCurrency)
		apiV1.GET("/markup", handlers.GetMarkup)

		apiV1.GET("/cache", handlers.GetCacheStatus)
		apiV1.DELETE("/cache", handlers.ClearCache)
	}

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthCheckResponse := models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(handlers.startTime).String(),
	}

	if handlers.ratesService == nil {
		healthCheckResponse.Status = "degraded"
	} else {
		healthCheckResponse.Provider = handlers.ratesService.ProviderName()
		healthCheckResponse.CachedBases = len(handlers.ratesService.CacheStatus())
	}

	context.JSON(http.StatusOK, healthCheckResponse)
}

// GetRates returns marked-up rates for the base given as a query parameter
func (handlers *Handlers) GetRates(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	exchangeRates := handlers.ratesService.GetExchangeRates(context.Request.Context(), context.Query("base"))
	context.JSON(http.StatusOK, exchangeRates)
}

// GetRatesByBase returns rates for the base given as a path parameter
func (handlers *Handlers) GetRatesByBase(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	exchangeRates := handlers.ratesService.GetExchangeRates(context.Request.Context(), context.Param("base"))
	context.JSON(http.StatusOK, exchangeRates)
}

// GetFormattedRates returns display rows for every other supported currency
func (handlers *Handlers) GetFormattedRates(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	formattedRates := handlers.ratesService.GetFormattedRates(context.Request.Context(), context.Param("base"))
	context.JSON(http.StatusOK, formattedRates)
}

// Convert converts ?amount= from ?from= into ?to=
func (handlers *Handlers) Convert(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	fromCurrency := context.Query("from")
	toCurrency := context.Query("to")
	if fromCurrency == "" || toCurrency == "" {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "missing currency", "both from and to query parameters are required")
		return
	}

	amount, parseError := strconv.ParseFloat(context.Query("amount"), 64)
	if parseError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid amount", "amount must be a number")
		return
	}

	conversion, conversionError := handlers.ratesService.ConvertCurrency(context.Request.Context(), amount, fromCurrency, toCurrency)
	if conversionError != nil {
		handlers.handleServiceError(context, conversionError)
		return
	}

	context.JSON(http.StatusOK, conversion)
}

// GetCurrencies lists the supported currencies in display order
func (handlers *Handlers) GetCurrencies(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	context.JSON(http.StatusOK, handlers.ratesService.GetSupportedCurrencies())
}

// GetCurrency returns reference data for one currency code
func (handlers *Handlers) GetCurrency(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	code := context.Param("code")
	currencyInfo, found := handlers.ratesService.GetCurrencyInfo(code)
	if !found {
		handlers.writeErrorResponse(context, http.StatusNotFound, "currency not found", "unsupported currency code "+strconv.Quote(code))
		return
	}

	context.JSON(http.StatusOK, currencyInfo)
}

// GetMarkup returns the markup disclosure
func (handlers *Handlers) GetMarkup(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	context.JSON(http.StatusOK, handlers.ratesService.MarkupInfo())
}

// GetCacheStatus reports cached base currencies and their freshness
func (handlers *Handlers) GetCacheStatus(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	context.JSON(http.StatusOK, handlers.ratesService.CacheStatus())
}

// ClearCache forces the next request for every base to refetch
func (handlers *Handlers) ClearCache(context *gin.Context) {
	if !handlers.requireRatesService(context) {
		return
	}

	handlers.ratesService.ClearCache()
	context.Status(http.StatusNoContent)
}

func (handlers *Handlers) requireRatesService(context *gin.Context) bool {
	if handlers.ratesService == nil {
		handlers.writeErrorResponse(context, http.StatusServiceUnavailable, "rates service unavailable", "not configured")
		return false
	}
	return true
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	errorResponse := models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	}

	context.JSON(statusCode, errorResponse)
}

// handleServiceError maps conversion error types to HTTP responses
func (handlers *Handlers) handleServiceError(context *gin.Context, err error) {
	var serviceError *service.ServiceError
	if !errors.As(err, &serviceError) {
		handlers.logger.Errorf("Unexpected service error: %v", err)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "service error", err.Error())
		return
	}

	switch serviceError.Type {
	case service.ErrorTypeRateUnavailable:
		handlers.writeErrorResponse(context, http.StatusUnprocessableEntity, "rate unavailable", serviceError.Error())
	case service.ErrorTypeInvalidAmount:
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid amount", serviceError.Error())
	default:
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "service error", serviceError.Error())
	}
}

// corsMiddleware adds CORS headers using Gin middleware
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		switch context.Request.Method {
		case http.MethodOptions:
			context.AbortWithStatus(http.StatusOK)
			return
		case http.MethodGet, http.MethodDelete:
		default:
			context.AbortWithStatus(http.StatusMethodNotAllowed)
			return
		}

		context.Next()
	}
}

// rateLimitMiddleware rejects clients that exhausted their token bucket
func (handlers *Handlers) rateLimitMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := handlers.rateLimiter.GetClientIP(context.Request)

		if !handlers.rateLimiter.Allow(clientIP) {
			handlers.logger.WithFields(logger.Fields{"client_ip": clientIP, "path": context.FullPath()}).Warn("Rate limit exceeded")
			context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(handlers.rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			handlers.writeErrorResponse(context, http.StatusTooManyRequests, "rate limit exceeded", "too many requests from "+clientIP)
			context.Abort()
			return
		}

		context.Next()
	}
}
