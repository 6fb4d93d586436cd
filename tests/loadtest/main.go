package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	numWorkers   = 50
	testDuration = 10 * time.Second
	numTalents   = 20
)

var (
	baseURL    = envOr("TALENTPAY_URL", "http://127.0.0.1:18090")
	adminToken = os.Getenv("TALENTPAY_ADMIN_TOKEN")
	platformID = envOr("TALENTPAY_PLATFORM", "cb")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fmt.Println("=== talentpay Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Talents: %d\n\n", numWorkers, testDuration, numTalents)
	if adminToken == "" {
		fmt.Println("FAILED: TALENTPAY_ADMIN_TOKEN is not set")
		return
	}

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: talents, periods and platform links
	fmt.Println("\n--- Phase 1: Seeding talents and periods ---")
	periods, err := seed()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	fmt.Printf("Seeded %d periods\n", len(periods))

	// Phase 2: production writes invalidate the payout cache
	fmt.Println("\n--- Phase 2: Mixed load (50% production PUT, 50% payout GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		period := periods[rng.Intn(len(periods))]
		if rng.Float64() < 0.50 {
			return doPutProduction(rng, period)
		}
		return doGetPayout(period)
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (5% PUT, 95% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		period := periods[rng.Intn(len(periods))]
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doPutProduction(rng, period)
		case r < 0.90:
			return doGetPayout(period)
		default:
			return doGetDiscounts(period)
		}
	})
}

func seed() ([]string, error) {
	periods := make([]string, 0, numTalents)
	for i := 0; i < numTalents; i++ {
		var talent struct {
			ID string `json:"id"`
		}
		err := call(http.MethodPost, "/admin/talents", map[string]any{
			"display_name":    fmt.Sprintf("load-talent-%d", i),
			"percent_default": 60,
		}, &talent)
		if err != nil {
			return nil, err
		}

		var period struct {
			ID string `json:"id"`
		}
		err = call(http.MethodPost, "/admin/talents/"+talent.ID+"/periods", map[string]any{
			"name":              fmt.Sprintf("load-period-%d", i),
			"usd_to_local_rate": 4000,
			"weeks_count":       3,
			"percent":           60,
		}, &period)
		if err != nil {
			return nil, err
		}

		err = call(http.MethodPut, "/admin/periods/"+period.ID+"/platforms/"+platformID, map[string]any{
			"traffic_bots": true,
		}, nil)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period.ID)
	}
	return periods, nil
}

func call(method, path string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, baseURL+path, bytes.NewReader(data))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func do(endpoint, method, path string, body []byte, want int) result {
	req, _ := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doPutProduction(rng *rand.Rand, period string) result {
	body := map[string]any{
		"entries": []map[string]any{{
			"platform_id": platformID,
			"total":       rng.Intn(12000),
		}},
	}
	data, _ := json.Marshal(body)
	return do("PUT /production", http.MethodPut, "/periods/"+period+"/production", data, http.StatusOK)
}

func doGetPayout(period string) result {
	return do("GET /payout", http.MethodGet, "/admin/periods/"+period+"/payout", nil, http.StatusOK)
}

func doGetDiscounts(period string) result {
	return do("GET /discounts", http.MethodGet, "/admin/periods/"+period+"/discounts", nil, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dÂµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
