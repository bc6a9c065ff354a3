package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Account is a wallet under test: its bearer token and wallet number
type Account struct {
	Token        string
	WalletNumber string
}

// TransferRequest is the transfer payload
type TransferRequest struct {
	WalletNumber string `json:"wallet_number"`
	Amount       int64  `json:"amount"`
	PIN          string `json:"pin"`
}

// ErrorResponse is the API error body
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AuditResponse is the ledger audit body
type AuditResponse struct {
	WalletID      string `json:"wallet_id"`
	CachedBalance int64  `json:"cached_balance"`
	LedgerBalance int64  `json:"ledger_balance"`
	EntryCount    int64  `json:"entry_count"`
	Consistent    bool   `json:"consistent"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	Rejected     bool // insufficient funds, which is expected under contention
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	RejectedRequests   int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

// TransferScenario defines a transfer size
type TransferScenario struct {
	Name   string
	Amount int64 // minor units
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of transfers to make")
	accountsStr := flag.String("a", "", "Comma-separated token:walletNumber pairs (at least two)")
	pin := flag.String("pin", "1234", "Transaction PIN shared by the test accounts")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	var accounts []Account
	for _, pair := range strings.Split(*accountsStr, ",") {
		token, number, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if ok && token != "" && number != "" {
			accounts = append(accounts, Account{Token: token, WalletNumber: number})
		}
	}
	if len(accounts) < 2 {
		fmt.Fprintln(os.Stderr, "at least two accounts are required, see -a")
		os.Exit(2)
	}

	scenarios := []TransferScenario{
		{"Small", 100},
		{"Medium", 2500},
		{"Large", 10000},
	}

	fmt.Printf("Load testing transfers across %d wallets\n", len(accounts))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(*baseURL, *pin, *delayMs, accounts, scenarios, jobs, results, stats)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Success:
				stats.SuccessfulRequests++
			case result.Rejected:
				stats.RejectedRequests++
			default:
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime
			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.RejectedRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	if !auditAccounts(*baseURL, accounts) {
		os.Exit(1)
	}
}

func worker(baseURL, pin string, delayMs int, accounts []Account, scenarios []TransferScenario,
	jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		from := rand.Intn(len(accounts))
		to := rand.Intn(len(accounts) - 1)
		if to >= from {
			to++
		}
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		payload, err := json.Marshal(TransferRequest{
			WalletNumber: accounts[to].WalletNumber,
			Amount:       scenario.Amount,
			PIN:          pin,
		})
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+"/wallet/transfer", bytes.NewReader(payload))
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accounts[from].Token)

		start := time.Now()
		resp, err := client.Do(req)
		result := TestResult{ResponseTime: time.Since(start)}

		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
		if !result.Success {
			var body ErrorResponse
			_ = json.NewDecoder(resp.Body).Decode(&body)
			if body.Kind == "INSUFFICIENT_FUNDS" {
				result.Rejected = true
			} else {
				result.Error = fmt.Errorf("HTTP %d %s", resp.StatusCode, body.Kind)
			}
		}
		_ = resp.Body.Close()

		results <- result
	}
}

// auditAccounts checks every wallet's cached balance against its ledger
func auditAccounts(baseURL string, accounts []Account) bool {
	client := &http.Client{Timeout: 10 * time.Second}
	healthy := true

	fmt.Println("\n----------------- LEDGER AUDIT -----------------")
	for _, account := range accounts {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/wallet/audit", nil)
		if err != nil {
			fmt.Printf("%s: %v\n", account.WalletNumber, err)
			healthy = false
			continue
		}
		req.Header.Set("Authorization", "Bearer "+account.Token)

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("%s: %v\n", account.WalletNumber, err)
			healthy = false
			continue
		}
		var audit AuditResponse
		err = json.NewDecoder(resp.Body).Decode(&audit)
		_ = resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			fmt.Printf("%s: audit failed with HTTP %d\n", account.WalletNumber, resp.StatusCode)
			healthy = false
			continue
		}

		mark := "✅"
		if !audit.Consistent {
			mark = "❌"
			healthy = false
		}
		fmt.Printf("%s %s: cached %d, ledger %d, %d entries\n",
			mark, account.WalletNumber, audit.CachedBalance, audit.LedgerBalance, audit.EntryCount)
	}
	return healthy
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	completedTps := float64(stats.SuccessfulRequests+stats.RejectedRequests) / stats.TotalTime.Seconds()
	successTps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	sorted := make([]time.Duration, len(stats.ResponseTimes))
	copy(sorted, stats.ResponseTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful:          %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Insufficient funds:  %d (%.1f%%)\n", stats.RejectedRequests,
		float64(stats.RejectedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed:              %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- PERFORMANCE -----------------")
	fmt.Printf("Completed TPS:       %.2f (answered requests / total time)\n", completedTps)
	fmt.Printf("Transfer TPS:        %.2f (moved funds / total time)\n", successTps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", percentile(sorted, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sorted, 90))
	fmt.Printf("P95 Response:        %v\n", percentile(sorted, 95))
	fmt.Printf("P99 Response:        %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		if count > 0 {
			fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
	fmt.Println("================================================")
}
