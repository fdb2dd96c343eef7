// Package benchmark measures the two GraphQL engines against each other:
// per-call timing, allocation and SQL statement counts, aggregated into
// per-scenario statistics and written out as JSON and markdown.
package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"gqlbench/internal/lib/querycount"
)

const bytesPerMB = 1024 * 1024

// MetricResult is a single measured call. AllocBytes is the growth of the
// process-wide allocation counter during the call, so concurrent samples
// include each other's allocations.
type MetricResult struct {
	Name              string  `json:"name"`
	Implementation    string  `json:"implementation"`
	QueryName         string  `json:"query_name"`
	TotalTimeMs       float64 `json:"total_time_ms"`
	ResolveTimeMs     float64 `json:"resolve_time_ms"`
	AllocBytes        uint64  `json:"alloc_bytes"`
	DBQueryCount      int64   `json:"db_query_count"`
	ResponseSizeBytes int     `json:"response_size_bytes"`
	Success           bool    `json:"success"`
	Error             string  `json:"error,omitempty"`
}

// BenchmarkResult aggregates the samples of one implementation on one query.
type BenchmarkResult struct {
	Name           string         `json:"name"`
	Implementation string         `json:"implementation"`
	QueryName      string         `json:"query_name"`
	Iterations     int            `json:"iterations"`
	MeanTimeMs     float64        `json:"mean_time_ms"`
	MedianTimeMs   float64        `json:"median_time_ms"`
	MinTimeMs      float64        `json:"min_time_ms"`
	MaxTimeMs      float64        `json:"max_time_ms"`
	StdDevMs       float64        `json:"std_dev_ms"`
	P95TimeMs      float64        `json:"p95_time_ms"`
	P99TimeMs      float64        `json:"p99_time_ms"`
	MeanMemoryMB   float64        `json:"mean_memory_mb"`
	PeakMemoryMB   float64        `json:"peak_memory_mb"`
	MeanDBQueries  float64        `json:"mean_db_queries"`
	RawResults     []MetricResult `json:"raw_results,omitempty"`
}

// QueryFunc performs one call. The returned value is serialised to size the
// response; a non-nil error marks the sample as failed.
type QueryFunc func(ctx context.Context) (any, error)

// Collector records samples. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	results []MetricResult
}

func NewCollector() *Collector {
	return &Collector{}
}

// Measure times fn once and records the sample.
func (c *Collector) Measure(ctx context.Context, name, implementation, queryName string, fn QueryFunc) MetricResult {
	ctx, counter := querycount.WithCounter(ctx)
	queriesBefore := counter.Load()

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	result, err := call(ctx, fn)
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	metric := MetricResult{
		Name:           name,
		Implementation: implementation,
		QueryName:      queryName,
		TotalTimeMs:    float64(elapsed.Microseconds()) / 1000,
		AllocBytes:     after.TotalAlloc - before.TotalAlloc,
		DBQueryCount:   counter.Load() - queriesBefore,
		Success:        err == nil,
	}
	metric.ResolveTimeMs = metric.TotalTimeMs

	if err != nil {
		metric.Error = err.Error()
	} else if body, err := json.Marshal(result); err != nil {
		metric.Success = false
		metric.Error = fmt.Sprintf("failed to encode response: %v", err)
	} else {
		metric.ResponseSizeBytes = len(body)
	}

	c.mu.Lock()
	c.results = append(c.results, metric)
	c.mu.Unlock()

	return metric
}

func call(ctx context.Context, fn QueryFunc) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Results returns a copy of every recorded sample.
func (c *Collector) Results() []MetricResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]MetricResult, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Collector) Clear() {
	c.mu.Lock()
	c.results = nil
	c.mu.Unlock()
}

// Aggregate computes statistics over the successful samples only. Iterations
// counts every sample, failed ones included.
func (c *Collector) Aggregate(implementation, queryName string, results []MetricResult) BenchmarkResult {
	out := BenchmarkResult{
		Name:           implementation + "_" + queryName,
		Implementation: implementation,
		QueryName:      queryName,
		Iterations:     len(results),
		RawResults:     results,
	}

	var times, memories []float64
	var queries float64
	for _, r := range results {
		if !r.Success {
			continue
		}
		times = append(times, r.TotalTimeMs)
		memories = append(memories, float64(r.AllocBytes)/bytesPerMB)
		queries += float64(r.DBQueryCount)
	}
	if len(times) == 0 {
		return out
	}

	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	n := len(sorted)

	out.MeanTimeMs = mean(times)
	out.MedianTimeMs = median(sorted)
	out.MinTimeMs = sorted[0]
	out.MaxTimeMs = sorted[n-1]
	out.StdDevMs = stdDev(times, out.MeanTimeMs)
	out.P95TimeMs = sorted[percentileIndex(n, 0.95)]
	out.P99TimeMs = sorted[percentileIndex(n, 0.99)]
	out.MeanMemoryMB = mean(memories)
	out.PeakMemoryMB = maxOf(memories)
	out.MeanDBQueries = queries / float64(n)

	return out
}

func percentileIndex(n int, q float64) int {
	i := int(float64(n) * q)
	if i >= n {
		i = n - 1
	}
	return i
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the sample standard deviation; a single sample has none.
func stdDev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
