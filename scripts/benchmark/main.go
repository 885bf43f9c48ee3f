package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL   = flag.String("api-url", "http://localhost:8080", "PromoReport API base URL")
	password = flag.String("password", "", "dashboard password for authenticated requests")
	runs     = flag.Int("runs", 3, "Number of runs per URL for averaging")
	output   = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Test URLs covering the four source kinds. The analytics row needs a
// public share link to succeed end to end; against a private dashboard
// it still measures navigation and the failure path.
var testURLs = []struct {
	Label  string
	Source string
	URL    string
}{
	{"SmartLink", "smartlink", "https://ffm.to/neon-skyline"},
	{"Analytics", "analytics", "https://app.ffm.to/dashboard/neon-skyline/overview"},
	{"Article", "article", "https://www.clashmusic.com/reviews/ada-vale-neon-skyline/"},
	{"Playlist", "playlist", "https://open.spotify.com/playlist/37i9dQZF1DX2sUQwD7tbmL"},
}

// --- Request / Response types (mirrors models package) ---

type extractRequest struct {
	URL     string `json:"url"`
	Source  string `json:"source"`
	Timeout int    `json:"timeout"`
}

type extractResponse struct {
	Success bool            `json:"success"`
	Source  string          `json:"source"`
	Data    json.RawMessage `json:"data"`
	Timing  timingInfo      `json:"timing"`
	Error   *errorDetail    `json:"error,omitempty"`
}

type timingInfo struct {
	TotalMs   int64 `json:"total_ms"`
	RenderMs  int64 `json:"render_ms"`
	ExtractMs int64 `json:"extract_ms"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run       int    `json:"run"`
	TotalMs   int64  `json:"total_ms"`
	RenderMs  int64  `json:"render_ms"`
	ExtractMs int64  `json:"extract_ms"`
	DataBytes int    `json:"data_bytes"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type urlAverages struct {
	TotalMs   float64 `json:"total_ms"`
	RenderMs  float64 `json:"render_ms"`
	ExtractMs float64 `json:"extract_ms"`
	DataBytes float64 `json:"data_bytes"`
}

type urlResult struct {
	URL      string       `json:"url"`
	Label    string       `json:"label"`
	Source   string       `json:"source"`
	Runs     []runResult  `json:"runs"`
	Averages *urlAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== PromoReport Benchmark Suite ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/URL:  %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure PromoReport is running (e.g. make run)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerURL: *runs,
	}

	for _, t := range testURLs {
		fmt.Printf("Benchmarking [%s] %s ...\n", t.Label, t.URL)
		ur := urlResult{URL: t.URL, Label: t.Label, Source: t.Source}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkURL(t.URL, t.Source, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %s bytes\n", rr.TotalMs, formatInt(rr.DataBytes))
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			ur.Runs = append(ur.Runs, rr)
		}

		ur.Averages = computeAverages(ur.Runs)
		report.Results = append(report.Results, ur)
		fmt.Println()
	}

	// Print summary table.
	printTable(report.Results)

	// Write JSON report.
	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkURL(url, source string, run int) runResult {
	rr := runResult{Run: run}

	reqBody := extractRequest{
		URL:     url,
		Source:  source,
		Timeout: 60,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest("POST", *apiURL+"/api/v1/extract", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *password != "" {
		req.Header.Set("Authorization", "Bearer "+*password)
	}

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var er extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = er.Success
	rr.TotalMs = er.Timing.TotalMs
	rr.RenderMs = er.Timing.RenderMs
	rr.ExtractMs = er.Timing.ExtractMs
	rr.DataBytes = len(er.Data)

	if er.Error != nil {
		rr.Error = er.Error.Message
	}

	return rr
}

func computeAverages(runs []runResult) *urlAverages {
	var successCount int
	var avg urlAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.RenderMs += float64(r.RenderMs)
		avg.ExtractMs += float64(r.ExtractMs)
		avg.DataBytes += float64(r.DataBytes)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.RenderMs /= n
	avg.ExtractMs /= n
	avg.DataBytes /= n
	return &avg
}

func printTable(results []urlResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\tSource\tAvg Latency\tAvg Render\tData Bytes\tOK\n")
	fmt.Fprintf(w, "───\t──────\t───────────\t──────────\t──────────\t──\n")

	for _, r := range results {
		ok := successCount(r.Runs)

		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t-\t%d/%d\n",
				truncateURL(r.URL, 40), r.Source, ok, len(r.Runs))
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%dms\t%dms\t%s\t%d/%d\n",
			truncateURL(r.URL, 40),
			r.Source,
			int64(r.Averages.TotalMs),
			int64(r.Averages.RenderMs),
			formatInt(int(r.Averages.DataBytes)),
			ok, len(r.Runs),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func successCount(runs []runResult) int {
	n := 0
	for _, r := range runs {
		if r.Success {
			n++
		}
	}
	return n
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
