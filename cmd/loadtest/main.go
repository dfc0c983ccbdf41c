package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Currencies      []string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	UserID     int
	RequestID  int
	Endpoint   string
	StatusCode int
	Duration   time.Duration
	Success    bool
	Degraded   bool
	Error      error
	Timestamp  time.Time
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	RateLimited         int
	DegradedResponses   int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime50th    time.Duration
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
	ByEndpoint          map[string]int
}

// target is one request the load generator can issue
type target struct {
	endpoint string
	path     string
}

func main() {
	var config LoadTestConfig
	var currencies string

	flag.StringVar(&config.BaseURL, "url", "http://localhost:8081", "Service base URL")
	flag.StringVar(&currencies, "currencies", "USD,EUR,GBP,JPY", "Comma separated base currencies to rotate through")
	flag.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flag.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flag.DurationVar(&config.RampUpDuration, "rampup", 5*time.Second, "Ramp-up duration")
	flag.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")
	flag.Parse()

	config.Currencies = parseCurrencies(currencies)
	if len(config.Currencies) == 0 || config.ConcurrentUsers <= 0 {
		fmt.Println("at least one currency and one user are required")
		return
	}

	fmt.Printf("Starting load test...\n")
	fmt.Printf("URL: %s\n", config.BaseURL)
	fmt.Printf("Currencies: %s\n", strings.Join(config.Currencies, ", "))
	fmt.Printf("Concurrent Users: %d\n", config.ConcurrentUsers)
	fmt.Printf("Requests per User: %d\n", config.RequestsPerUser)
	fmt.Printf("Timeout: %v\n", config.Timeout)
	fmt.Printf("Ramp-up Duration: %v\n", config.RampUpDuration)
	fmt.Printf("Think Time: %v\n", config.ThinkTime)
	fmt.Printf("Test Duration: %v\n", config.TestDuration)
	fmt.Println()

	summary := runLoadTest(config)

	printSummary(summary)
}

func parseCurrencies(list string) []string {
	var currencies []string
	for _, code := range strings.Split(list, ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			currencies = append(currencies, code)
		}
	}
	return currencies
}

// buildTargets rotates rates, formatted rates and conversions across currencies
func buildTargets(baseURL string, currencies []string) []target {
	baseURL = strings.TrimRight(baseURL, "/")
	targets := make([]target, 0, len(currencies)*3)

	for i, code := range currencies {
		to := currencies[(i+1)%len(currencies)]
		query := url.Values{"from": {code}, "to": {to}, "amount": {"100"}}

		targets = append(targets,
			target{endpoint: "rates", path: baseURL + "/api/v1/rates/" + url.PathEscape(code)},
			target{endpoint: "formatted", path: baseURL + "/api/v1/rates/" + url.PathEscape(code) + "/formatted"},
			target{endpoint: "convert", path: baseURL + "/api/v1/convert?" + query.Encode()},
		)
	}
	return targets
}

func runLoadTest(config LoadTestConfig) LoadTestSummary {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)
	targets := buildTargets(config.BaseURL, config.Currencies)

	client := &http.Client{
		Timeout: config.Timeout,
	}

	startTime := time.Now()

	ctx := context.Background()
	if config.TestDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TestDuration)
		defer cancel()
	}

	var wg sync.WaitGroup
	rampUpDelay := config.RampUpDuration / time.Duration(config.ConcurrentUsers)

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		wg.Add(1)
		go func(uid int) {
			defer wg.Done()

			time.Sleep(time.Duration(uid) * rampUpDelay)

			for reqID := 0; reqID < config.RequestsPerUser; reqID++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				next := targets[(uid+reqID)%len(targets)]
				results <- makeRequest(ctx, client, next, uid, reqID)

				if config.ThinkTime > 0 {
					time.Sleep(config.ThinkTime)
				}
			}
		}(userID)
	}

	wg.Wait()
	close(results)

	return processResults(results, time.Since(startTime))
}

func makeRequest(ctx context.Context, client *http.Client, next target, userID, requestID int) LoadTestResult {
	start := time.Now()
	result := LoadTestResult{
		UserID:    userID,
		RequestID: requestID,
		Endpoint:  next.endpoint,
		Timestamp: start,
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, next.path, nil)
	if err != nil {
		result.Error = err
		return result
	}

	resp, err := client.Do(request)
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	var body struct {
		Degraded bool `json:"degraded"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
		result.Degraded = body.Degraded
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	result.Duration = time.Since(start)
	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{
		TotalDuration: totalDuration,
		ByEndpoint:    make(map[string]int),
	}
	var responseTimes []time.Duration

	for result := range results {
		summary.TotalRequests++
		summary.ByEndpoint[result.Endpoint]++
		responseTimes = append(responseTimes, result.Duration)

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
		if result.StatusCode == http.StatusTooManyRequests {
			summary.RateLimited++
		}
		if result.Degraded {
			summary.DegradedResponses++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	if totalDuration > 0 {
		summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()
	}

	sort.Slice(responseTimes, func(i, j int) bool { return responseTimes[i] < responseTimes[j] })

	var totalResponseTime time.Duration
	for _, rt := range responseTimes {
		totalResponseTime += rt
	}
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))

	summary.ResponseTime50th = calculatePercentile(responseTimes, 50)
	summary.ResponseTime95th = calculatePercentile(responseTimes, 95)
	summary.ResponseTime99th = calculatePercentile(responseTimes, 99)

	return summary
}

// calculatePercentile expects times sorted ascending
func calculatePercentile(times []time.Duration, percentile int) time.Duration {
	if len(times) == 0 {
		return 0
	}

	index := int(float64(len(times)) * float64(percentile) / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}

	return times[index]
}

func printSummary(summary LoadTestSummary) {
	fmt.Println("=== Load Test Results ===")
	if summary.TotalRequests == 0 {
		fmt.Println("No requests completed")
		return
	}

	fmt.Printf("Total Requests: %d\n", summary.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Printf("Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	fmt.Printf("Rate Limited (429): %d\n", summary.RateLimited)
	fmt.Printf("Degraded Responses: %d\n", summary.DegradedResponses)
	fmt.Printf("Total Duration: %v\n", summary.TotalDuration)
	fmt.Printf("Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Printf("Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Printf("Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Printf("Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Printf("50th Percentile Response Time: %v\n", summary.ResponseTime50th)
	fmt.Printf("95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Printf("99th Percentile Response Time: %v\n", summary.ResponseTime99th)

	endpoints := make([]string, 0, len(summary.ByEndpoint))
	for endpoint := range summary.ByEndpoint {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)
	fmt.Println("\n=== Requests by Endpoint ===")
	for _, endpoint := range endpoints {
		fmt.Printf("%-10s %d\n", endpoint, summary.ByEndpoint[endpoint])
	}

	fmt.Println("\n=== Performance Assessment ===")
	if summary.ErrorRate > 5.0 {
		fmt.Printf("⚠️  High error rate: %.2f%% (target: < 5%%)\n", summary.ErrorRate)
	} else {
		fmt.Printf("✅ Error rate: %.2f%% (good)\n", summary.ErrorRate)
	}

	if summary.AverageResponseTime > 2*time.Second {
		fmt.Printf("⚠️  High average response time: %v (target: < 2s)\n", summary.AverageResponseTime)
	} else {
		fmt.Printf("✅ Average response time: %v (good)\n", summary.AverageResponseTime)
	}

	if summary.RequestsPerSecond < 10 {
		fmt.Printf("⚠️  Low throughput: %.2f req/s (target: > 10 req/s)\n", summary.RequestsPerSecond)
	} else {
		fmt.Printf("✅ Throughput: %.2f req/s (good)\n", summary.RequestsPerSecond)
	}
}
