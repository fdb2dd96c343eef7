package benchmark

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gqlbench/internal/lib/querycount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(times ...float64) []MetricResult {
	out := make([]MetricResult, len(times))
	for i, t := range times {
		out[i] = MetricResult{TotalTimeMs: t, AllocBytes: uint64(i+1) * bytesPerMB, DBQueryCount: int64(i), Success: true}
	}
	return out
}

func TestAggregate(t *testing.T) {
	c := NewCollector()

	res := c.Aggregate("impl", "q", samples(4, 1, 3, 2))

	assert.Equal(t, "impl_q", res.Name)
	assert.Equal(t, 4, res.Iterations)
	assert.InDelta(t, 2.5, res.MeanTimeMs, 1e-9)
	assert.InDelta(t, 2.5, res.MedianTimeMs, 1e-9)
	assert.Equal(t, 1.0, res.MinTimeMs)
	assert.Equal(t, 4.0, res.MaxTimeMs)
	assert.InDelta(t, 1.2909944, res.StdDevMs, 1e-6)
	// sorted[int(4*0.95)] = sorted[3]
	assert.Equal(t, 4.0, res.P95TimeMs)
	assert.Equal(t, 4.0, res.P99TimeMs)
	assert.InDelta(t, 2.5, res.MeanMemoryMB, 1e-9)
	assert.InDelta(t, 4.0, res.PeakMemoryMB, 1e-9)
	assert.InDelta(t, 1.5, res.MeanDBQueries, 1e-9)
	assert.Len(t, res.RawResults, 4)
}

func TestAggregatePercentiles(t *testing.T) {
	times := make([]float64, 100)
	for i := range times {
		times[i] = float64(100 - i)
	}

	res := NewCollector().Aggregate("impl", "q", samples(times...))

	assert.Equal(t, 96.0, res.P95TimeMs)
	assert.Equal(t, 100.0, res.P99TimeMs)
	assert.InDelta(t, 50.5, res.MedianTimeMs, 1e-9)
}

func TestAggregateSkipsFailedSamples(t *testing.T) {
	in := samples(10, 20, 30)
	in[2].Success = false

	res := NewCollector().Aggregate("impl", "q", in)

	assert.Equal(t, 3, res.Iterations)
	assert.InDelta(t, 15, res.MeanTimeMs, 1e-9)
	assert.Equal(t, 20.0, res.MaxTimeMs)
}

func TestAggregateWithoutSuccess(t *testing.T) {
	in := samples(10, 20)
	in[0].Success, in[1].Success = false, false

	res := NewCollector().Aggregate("impl", "q", in)

	assert.Equal(t, 2, res.Iterations)
	assert.Zero(t, res.MeanTimeMs)
	assert.Zero(t, res.P99TimeMs)
	assert.Zero(t, res.PeakMemoryMB)
}

func TestAggregateSingleSample(t *testing.T) {
	res := NewCollector().Aggregate("impl", "q", samples(7))

	assert.Zero(t, res.StdDevMs)
	assert.Equal(t, 7.0, res.P95TimeMs)
}

func TestMeasure(t *testing.T) {
	c := NewCollector()

	m := c.Measure(context.Background(), "n", "impl", "q", func(ctx context.Context) (any, error) {
		querycount.Inc(ctx)
		querycount.Inc(ctx)
		return map[string]int{"a": 1}, nil
	})

	assert.True(t, m.Success)
	assert.Equal(t, int64(2), m.DBQueryCount)
	assert.Equal(t, len(`{"a":1}`), m.ResponseSizeBytes)
	assert.GreaterOrEqual(t, m.TotalTimeMs, 0.0)
	assert.Equal(t, m.TotalTimeMs, m.ResolveTimeMs)
}

func TestMeasureFailures(t *testing.T) {
	c := NewCollector()

	failed := c.Measure(context.Background(), "n", "impl", "q", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.Error)
	assert.Zero(t, failed.ResponseSizeBytes)

	panicked := c.Measure(context.Background(), "n", "impl", "q", func(context.Context) (any, error) {
		panic("kaput")
	})
	assert.False(t, panicked.Success)
	assert.Contains(t, panicked.Error, "kaput")

	unencodable := c.Measure(context.Background(), "n", "impl", "q", func(context.Context) (any, error) {
		return func() {}, nil
	})
	assert.False(t, unencodable.Success)

	assert.Len(t, c.Results(), 3)
	c.Clear()
	assert.Empty(t, c.Results())
}

func TestMeasureConcurrently(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Measure(context.Background(), "n", "impl", "q", func(ctx context.Context) (any, error) {
				querycount.Inc(ctx)
				return nil, nil
			})
		}()
	}
	wg.Wait()

	results := c.Results()
	require.Len(t, results, 50)
	for _, r := range results {
		assert.Equal(t, int64(1), r.DBQueryCount)
	}
}
