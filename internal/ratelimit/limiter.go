package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/config"
	"github.com/dalfonso89/fx-rates-service/internal/logger"
)

const (
	cleanupInterval = 5 * time.Minute
	idleBucketTTL   = time.Hour
)

// Limiter implements a token bucket rate limiter per client IP
type Limiter struct {
	Configuration *config.Config
	logger        logger.Logger
	now           func() time.Time

	clientBuckets map[string]*TokenBucket
	bucketsMutex  sync.Mutex

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// TokenBucket refills continuously at refillRate tokens per refillPeriod
type TokenBucket struct {
	capacity     float64
	tokens       float64
	refillRate   float64
	refillPeriod time.Duration
	lastRefill   time.Time
	lastSeen     time.Time
	mu           sync.Mutex
}

// NewLimiter creates a new rate limiter and starts idle-bucket cleanup
func NewLimiter(configuration *config.Config, logger logger.Logger) *Limiter {
	rateLimiter := &Limiter{
		Configuration: configuration,
		logger:        logger,
		now:           time.Now,
		clientBuckets: make(map[string]*TokenBucket),
		cleanupTicker: time.NewTicker(cleanupInterval),
		stopCleanup:   make(chan struct{}),
	}

	go rateLimiter.cleanup()

	return rateLimiter
}

func newTokenBucket(capacity, refillRate int, refillPeriod time.Duration, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:     float64(capacity),
		tokens:       float64(capacity),
		refillRate:   float64(refillRate),
		refillPeriod: refillPeriod,
		lastRefill:   now,
		lastSeen:     now,
	}
}

// Allow reports whether clientIP may make another request
func (rateLimiter *Limiter) Allow(clientIP string) bool {
	if !rateLimiter.Configuration.RateLimitEnabled {
		return true
	}

	now := rateLimiter.now()

	rateLimiter.bucketsMutex.Lock()
	tokenBucket, bucketExists := rateLimiter.clientBuckets[clientIP]
	if !bucketExists {
		tokenBucket = newTokenBucket(
			rateLimiter.Configuration.RateLimitBurst,
			rateLimiter.Configuration.RateLimitRequests,
			rateLimiter.Configuration.RateLimitWindow,
			now,
		)
		rateLimiter.clientBuckets[clientIP] = tokenBucket
	}
	rateLimiter.bucketsMutex.Unlock()

	return tokenBucket.allowAt(now)
}

// GetClientIP extracts the client IP, preferring the first X-Forwarded-For hop
func (rateLimiter *Limiter) GetClientIP(request *http.Request) string {
	if xForwardedFor := request.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		firstHop := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if clientIP := parseIP(firstHop); clientIP != "" {
			return clientIP
		}
	}

	if xRealIP := request.Header.Get("X-Real-IP"); xRealIP != "" {
		if clientIP := parseIP(strings.TrimSpace(xRealIP)); clientIP != "" {
			return clientIP
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

// parseIP accepts a bare IP or host:port and returns "" when neither parses
func parseIP(value string) string {
	if ip := net.ParseIP(value); ip != nil {
		return ip.String()
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	return ""
}

func (rateLimiter *Limiter) cleanup() {
	for {
		select {
		case <-rateLimiter.cleanupTicker.C:
			if removed := rateLimiter.evictIdle(); removed > 0 {
				rateLimiter.logger.Debugf("Evicted %d idle rate limit buckets", removed)
			}
		case <-rateLimiter.stopCleanup:
			rateLimiter.cleanupTicker.Stop()
			return
		}
	}
}

// evictIdle drops buckets unused for idleBucketTTL
func (rateLimiter *Limiter) evictIdle() int {
	now := rateLimiter.now()
	removed := 0

	rateLimiter.bucketsMutex.Lock()
	defer rateLimiter.bucketsMutex.Unlock()

	for clientIP, tokenBucket := range rateLimiter.clientBuckets {
		tokenBucket.mu.Lock()
		idle := now.Sub(tokenBucket.lastSeen) > idleBucketTTL
		tokenBucket.mu.Unlock()
		if idle {
			delete(rateLimiter.clientBuckets, clientIP)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rateLimiter *Limiter) Stop() {
	rateLimiter.stopOnce.Do(func() { close(rateLimiter.stopCleanup) })
}

func (tokenBucket *TokenBucket) allowAt(now time.Time) bool {
	tokenBucket.mu.Lock()
	defer tokenBucket.mu.Unlock()

	tokenBucket.lastSeen = now
	if elapsed := now.Sub(tokenBucket.lastRefill); elapsed > 0 && tokenBucket.refillPeriod > 0 {
		refill := elapsed.Seconds() / tokenBucket.refillPeriod.Seconds() * tokenBucket.refillRate
		tokenBucket.tokens = min(tokenBucket.capacity, tokenBucket.tokens+refill)
		tokenBucket.lastRefill = now
	}

	if tokenBucket.tokens >= 1 {
		tokenBucket.tokens--
		return true
	}
	return false
}
