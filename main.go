package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/api"
	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/logger"
	"github.com/dalfonso89/fx-rates-service/internal/metrics"
	"github.com/dalfonso89/fx-rates-service/internal/platform"
	"github.com/dalfonso89/fx-rates-service/internal/ratelimit"
	"github.com/dalfonso89/fx-rates-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ratesMetrics := metrics.NewRatesMetrics(prometheus.DefaultRegisterer)
	ratesService := service.NewRatesService(cfg, appLogger, service.WithMetrics(ratesMetrics))
	rateLimiter := ratelimit.NewLimiter(cfg, appLogger)

	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:         appLogger,
		RatesService:   ratesService,
		RateLimiter:    rateLimiter,
		MetricsHandler: promhttp.Handler(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ExchangeRateProvider.Timeout + 15*time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":         cfg.Port,
			"provider":     ratesService.ProviderName(),
			"default_base": cfg.DefaultBaseCurrency,
			"cache_ttl":    cfg.RatesCacheTTL.String(),
			"markup_bps":   cfg.MarkupBasisPoints,
			"rate_limit":   cfg.RateLimitEnabled,
		}).Info("Starting FX rates service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	appLogger.Info("Shutting down server...")

	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
