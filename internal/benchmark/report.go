package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	ResultsFile = "results.json"
	SummaryFile = "summary.md"
)

// Meta describes the run a set of results came from.
type Meta struct {
	Timestamp         time.Time `json:"timestamp"`
	Iterations        int       `json:"iterations"`
	ConcurrencyLevels []int     `json:"concurrency_levels"`
	ConcurrentBatches int       `json:"concurrent_batches"`
	Implementations   []string  `json:"implementations"`
	Driver            string    `json:"driver"`
}

// FormatComparison renders two results of the same query side by side and
// names the faster one.
func FormatComparison(a, b BenchmarkResult) string {
	t := table.NewWriter()
	t.SetTitle("Query: " + a.QueryName)
	t.AppendHeader(table.Row{"Metric", a.Implementation, b.Implementation})
	t.AppendRows([]table.Row{
		{"Mean Time (ms)", ms(a.MeanTimeMs), ms(b.MeanTimeMs)},
		{"Median Time (ms)", ms(a.MedianTimeMs), ms(b.MedianTimeMs)},
		{"P95 Time (ms)", ms(a.P95TimeMs), ms(b.P95TimeMs)},
		{"P99 Time (ms)", ms(a.P99TimeMs), ms(b.P99TimeMs)},
		{"Mean Memory (MB)", ms(a.MeanMemoryMB), ms(b.MeanMemoryMB)},
		{"Peak Memory (MB)", ms(a.PeakMemoryMB), ms(b.PeakMemoryMB)},
		{"Mean DB Queries", ms(a.MeanDBQueries), ms(b.MeanDBQueries)},
	})
	t.SetStyle(table.StyleLight)

	out := t.Render()
	if line := ratioLine(a, b); line != "" {
		out += "\n" + line
	}
	return out
}

func ratioLine(a, b BenchmarkResult) string {
	if a.MeanTimeMs <= 0 || b.MeanTimeMs <= 0 {
		return ""
	}
	ratio := a.MeanTimeMs / b.MeanTimeMs
	if ratio < 1 {
		return fmt.Sprintf("Performance Ratio: %s is %.2fx faster", a.Implementation, 1/ratio)
	}
	return fmt.Sprintf("Performance Ratio: %s is %.2fx faster", b.Implementation, ratio)
}

func ms(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Wins counts, per implementation, the sequential scenarios it had the lower
// mean time on. Concurrent scenarios are excluded and a tie goes to the
// second implementation.
func Wins(results []BenchmarkResult, first, second string) map[string]int {
	byQuery := make(map[string]map[string]BenchmarkResult)
	for _, r := range results {
		if strings.HasPrefix(r.QueryName, concurrentScenarioPrefix) {
			continue
		}
		if byQuery[r.QueryName] == nil {
			byQuery[r.QueryName] = make(map[string]BenchmarkResult)
		}
		byQuery[r.QueryName][r.Implementation] = r
	}

	wins := map[string]int{first: 0, second: 0}
	for _, impls := range byQuery {
		a, okA := impls[first]
		b, okB := impls[second]
		if !okA || !okB {
			continue
		}
		if a.MeanTimeMs < b.MeanTimeMs {
			wins[first]++
		} else {
			wins[second]++
		}
	}

	return wins
}

// WriteResults writes results.json and summary.md into dir, creating it when
// needed, and returns the summary path.
func WriteResults(dir string, report *Report, meta Meta) (string, error) {
	const op = "benchmark.WriteResults"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	compact := make([]BenchmarkResult, len(report.Results))
	for i, r := range report.Results {
		r.RawResults = nil
		compact[i] = r
	}

	body, err := json.MarshalIndent(struct {
		Meta       Meta              `json:"meta"`
		Results    []BenchmarkResult `json:"results"`
		Throughput []Throughput      `json:"throughput"`
	}{meta, compact, report.Throughput}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ResultsFile), body, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	summaryPath := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(summaryPath, []byte(Summary(report, meta)), 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return summaryPath, nil
}

// Summary renders the markdown report.
func Summary(report *Report, meta Meta) string {
	var b strings.Builder

	b.WriteString("# Benchmark Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", meta.Timestamp.Format("2006-01-02 15:04:05"))

	scenarios := make(map[string]bool)
	for _, r := range report.Results {
		if !strings.HasPrefix(r.QueryName, concurrentScenarioPrefix) {
			scenarios[r.QueryName] = true
		}
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Database driver: %s\n", meta.Driver)
	fmt.Fprintf(&b, "- Total tests: %d\n", len(scenarios))
	fmt.Fprintf(&b, "- Iterations per test: %d\n", meta.Iterations)
	if len(meta.Implementations) >= 2 {
		first, second := meta.Implementations[0], meta.Implementations[1]
		wins := Wins(report.Results, first, second)
		fmt.Fprintf(&b, "- %s wins: %d\n", first, wins[first])
		fmt.Fprintf(&b, "- %s wins: %d\n", second, wins[second])
	}

	sorted := append([]BenchmarkResult(nil), report.Results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].QueryName != sorted[j].QueryName {
			return sorted[i].QueryName < sorted[j].QueryName
		}
		return sorted[i].Implementation < sorted[j].Implementation
	})

	results := table.NewWriter()
	results.AppendHeader(table.Row{"Query", "Implementation", "Mean (ms)", "Median (ms)", "P95 (ms)", "P99 (ms)", "Memory (MB)", "DB Queries"})
	for _, r := range sorted {
		results.AppendRow(table.Row{
			r.QueryName, r.Implementation,
			ms(r.MeanTimeMs), ms(r.MedianTimeMs), ms(r.P95TimeMs), ms(r.P99TimeMs),
			ms(r.MeanMemoryMB), ms(r.MeanDBQueries),
		})
	}

	b.WriteString("\n## Detailed Results\n\n")
	b.WriteString(results.RenderMarkdown())
	b.WriteString("\n")

	if len(report.Throughput) > 0 {
		tp := table.NewWriter()
		tp.AppendHeader(table.Row{"Concurrency", "Implementation", "Throughput (req/s)", "Mean (ms)"})
		for _, t := range report.Throughput {
			tp.AppendRow(table.Row{t.Concurrency, t.Implementation, fmt.Sprintf("%.1f", t.RequestsPerSec), ms(t.MeanTimeMs)})
		}

		b.WriteString("\n## Throughput vs Concurrency\n\n")
		b.WriteString(tp.RenderMarkdown())
		b.WriteString("\n")
	}

	return b.String()
}
