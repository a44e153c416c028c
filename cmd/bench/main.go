// Command bench runs the performance catalog against a running API for
// both backends and prints a side-by-side latency comparison.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type measurement struct {
	Database string    `json:"database"`
	Query    string    `json:"query"`
	Timings  []float64 `json:"timings"`
	Stats    struct {
		Avg float64 `json:"avg"`
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"stats"`
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "API base URL")
	iterations := flag.Int("iterations", 20, "iterations per query template")
	flag.Parse()

	templates := []string{"active_owner", "name_search"}
	backends := []string{"mysql", "mongodb"}

	for _, tpl := range templates {
		fmt.Printf("=== Query: %s ===\n", tpl)
		for _, db := range backends {
			m, err := measure(*baseURL, db, tpl, *iterations)
			if err != nil {
				log.Fatalf("measure %s on %s: %v", tpl, db, err)
			}
			fmt.Printf("%s:\n", db)
			fmt.Printf("  Average: %.2fms\n", m.Stats.Avg)
			fmt.Printf("  Min: %.2fms, Max: %.2fms\n", m.Stats.Min, m.Stats.Max)
			fmt.Printf("  Timings: %s\n", formatTimings(m.Timings))
		}
		fmt.Println()
	}
}

func measure(baseURL, db, tpl string, iterations int) (*measurement, error) {
	url := fmt.Sprintf("%s/api/performance/measure?db=%s&query=%s&iterations=%d",
		baseURL, db, tpl, iterations)

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var m measurement
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func formatTimings(timings []float64) string {
	parts := make([]string, 0, len(timings))
	for _, t := range timings {
		parts = append(parts, fmt.Sprintf("%.2f", t))
	}
	return strings.Join(parts, ", ")
}
