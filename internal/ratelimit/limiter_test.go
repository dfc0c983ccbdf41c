package ratelimit

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/testutils"
)

func newTestLimiter(t *testing.T, burst, requests int, window time.Duration) (*Limiter, *testutils.FakeClock) {
	t.Helper()

	cfg := testutils.MockConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitBurst = burst
	cfg.RateLimitRequests = requests
	cfg.RateLimitWindow = window

	clock := testutils.NewFakeClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	limiter := NewLimiter(cfg, testutils.MockLogger())
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)

	return limiter, clock
}

func TestNewLimiter(t *testing.T) {
	cfg := testutils.MockConfig()
	log := testutils.MockLogger()

	limiter := NewLimiter(cfg, log)
	defer limiter.Stop()

	if limiter.Configuration != cfg {
		t.Errorf("NewLimiter() configuration = %v, want %v", limiter.Configuration, cfg)
	}
	if limiter.clientBuckets == nil {
		t.Errorf("NewLimiter() clientBuckets is nil")
	}
	if limiter.cleanupTicker == nil || limiter.stopCleanup == nil {
		t.Errorf("NewLimiter() cleanup not initialised")
	}
}

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name             string
		rateLimitEnabled bool
		requests         int
		expected         []bool
	}{
		{
			name:             "rate limiting disabled",
			rateLimitEnabled: false,
			requests:         5,
			expected:         []bool{true, true, true, true, true},
		},
		{
			name:             "rate limiting enabled - within limit",
			rateLimitEnabled: true,
			requests:         3,
			expected:         []bool{true, true, true},
		},
		{
			name:             "rate limiting enabled - exceed limit",
			rateLimitEnabled: true,
			requests:         12,
			expected:         []bool{true, true, true, true, true, true, true, true, true, true, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, _ := newTestLimiter(t, 10, 100, 60*time.Second)
			limiter.Configuration.RateLimitEnabled = tt.rateLimitEnabled

			for i := 0; i < tt.requests; i++ {
				if result := limiter.Allow("192.168.1.1"); result != tt.expected[i] {
					t.Errorf("Allow() request %d = %v, want %v", i, result, tt.expected[i])
				}
			}
		})
	}
}

func TestLimiter_Allow_Refill(t *testing.T) {
	// 60 requests per minute: one token per second
	limiter, clock := newTestLimiter(t, 2, 60, time.Minute)
	ip := "192.168.1.1"

	limiter.Allow(ip)
	limiter.Allow(ip)
	if limiter.Allow(ip) {
		t.Fatal("Allow() after burst = true, want false")
	}

	clock.Advance(500 * time.Millisecond)
	if limiter.Allow(ip) {
		t.Error("Allow() after half a token = true, want false")
	}

	clock.Advance(500 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Error("Allow() after a full token = false, want true")
	}

	clock.Advance(time.Hour)
	allowed := 0
	for i := 0; i < 5; i++ {
		if limiter.Allow(ip) {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed after long idle = %d, want capacity 2", allowed)
	}
}

func TestLimiter_Allow_DifferentIPs(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, 100, 60*time.Second)
	ip1 := "192.168.1.1"
	ip2 := "192.168.1.2"

	for i := 0; i < 5; i++ {
		if !limiter.Allow(ip1) {
			t.Errorf("Allow() IP1 request %d = false, want true", i)
		}
		if !limiter.Allow(ip2) {
			t.Errorf("Allow() IP2 request %d = false, want true", i)
		}
	}

	if limiter.Allow(ip1) {
		t.Errorf("Allow() IP1 after burst = true, want false")
	}
	if limiter.Allow(ip2) {
		t.Errorf("Allow() IP2 after burst = true, want false")
	}
}

func TestLimiter_Allow_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 50, 100, time.Minute)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 50 {
		t.Errorf("concurrent allowed = %d, want exactly the burst of 50", got)
	}
}

func TestLimiter_GetClientIP(t *testing.T) {
	limiter, _ := newTestLimiter(t, 10, 100, time.Minute)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For chain uses first hop",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "203.0.113.195"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "RemoteAddr fallback",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For with port",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195:8080"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "Invalid X-Forwarded-For falls back to RemoteAddr",
			headers:    map[string]string{"X-Forwarded-For": "invalid-ip"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			for header, value := range tt.headers {
				req.Header.Set(header, value)
			}

			if result := limiter.GetClientIP(req); result != tt.expected {
				t.Errorf("GetClientIP() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter, clock := newTestLimiter(t, 5, 100, time.Minute)

	limiter.Allow("10.0.0.1")
	clock.Advance(30 * time.Minute)
	limiter.Allow("10.0.0.2")
	clock.Advance(45 * time.Minute)

	if removed := limiter.evictIdle(); removed != 1 {
		t.Errorf("evictIdle() removed %d, want 1", removed)
	}
	if _, found := limiter.clientBuckets["10.0.0.1"]; found {
		t.Error("idle bucket for 10.0.0.1 still present")
	}
	if _, found := limiter.clientBuckets["10.0.0.2"]; !found {
		t.Error("active bucket for 10.0.0.2 evicted")
	}
}

func TestLimiter_Stop(t *testing.T) {
	cfg := testutils.MockConfig()
	limiter := NewLimiter(cfg, testutils.MockLogger())

	limiter.Stop()
	limiter.Stop()
}
