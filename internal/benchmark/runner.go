package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gqlbench/internal/lib/logger/sl"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Iterations        int
	ConcurrencyLevels []int
	ConcurrentBatches int
	// Scenarios defaults to every scenario in Queries, in Scenarios order.
	Scenarios []string
}

// Throughput is the request rate of one implementation at one concurrency level.
type Throughput struct {
	Implementation string  `json:"implementation"`
	Concurrency    int     `json:"concurrency"`
	RequestsPerSec float64 `json:"requests_per_sec"`
	MeanTimeMs     float64 `json:"mean_time_ms"`
}

type Report struct {
	Results    []BenchmarkResult `json:"results"`
	Throughput []Throughput      `json:"throughput"`
}

type Runner struct {
	log       *slog.Logger
	out       io.Writer
	collector *Collector
	engines   []Engine
	opts      Options
}

// NewRunner compares engines in the given order; comparisons are printed for
// the first two.
func NewRunner(log *slog.Logger, out io.Writer, opts Options, engines ...Engine) *Runner {
	if len(opts.Scenarios) == 0 {
		opts.Scenarios = Scenarios
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 1
	}

	return &Runner{
		log:       log,
		out:       out,
		collector: NewCollector(),
		engines:   engines,
		opts:      opts,
	}
}

// Warmup runs every scenario once on every engine. Failures are logged only.
func (r *Runner) Warmup(ctx context.Context) {
	const op = "benchmark.Runner.Warmup"

	log := r.log.With(slog.String("op", op))

	for _, scenario := range r.opts.Scenarios {
		for _, engine := range r.engines {
			if _, err := engine.Execute(ctx, Queries[scenario]); err != nil {
				log.Warn("warmup failed",
					slog.String("engine", engine.Name()),
					slog.String("scenario", scenario),
					sl.Err(err))
			}
		}
	}
}

// Run executes the sequential scenarios and then the concurrent batches.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	const op = "benchmark.Runner.Run"

	if len(r.engines) == 0 {
		return nil, fmt.Errorf("%s: no engines to run", op)
	}

	report := &Report{}

	for _, scenario := range r.opts.Scenarios {
		query, ok := Queries[scenario]
		if !ok {
			return nil, fmt.Errorf("%s: unknown scenario %q", op, scenario)
		}

		color.New(color.FgHiCyan).Fprintf(r.out, "\n  Testing: %s\n", scenario)

		var results []BenchmarkResult
		for _, engine := range r.engines {
			samples := make([]MetricResult, 0, r.opts.Iterations)
			for i := 0; i < r.opts.Iterations; i++ {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("%s: %w", op, err)
				}
				samples = append(samples, r.collector.Measure(ctx,
					fmt.Sprintf("%s_%s_%d", engine.Name(), scenario, i),
					engine.Name(), scenario, executeFunc(engine, query)))
			}
			results = append(results, r.collector.Aggregate(engine.Name(), scenario, samples))
		}

		report.Results = append(report.Results, results...)
		r.printComparison(results)
	}

	for _, concurrency := range r.opts.ConcurrencyLevels {
		color.New(color.FgHiCyan).Fprintf(r.out, "\n  Concurrency: %d parallel requests\n", concurrency)

		scenario := ConcurrentScenario(concurrency)
		var results []BenchmarkResult
		for _, engine := range r.engines {
			samples, err := r.concurrent(ctx, engine, concurrency)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			result := r.collector.Aggregate(engine.Name(), scenario, samples)
			results = append(results, result)

			tp := Throughput{
				Implementation: engine.Name(),
				Concurrency:    concurrency,
				MeanTimeMs:     result.MeanTimeMs,
			}
			if result.MeanTimeMs > 0 {
				tp.RequestsPerSec = float64(concurrency) / (result.MeanTimeMs / 1000)
			}
			report.Throughput = append(report.Throughput, tp)

			fmt.Fprintf(r.out, "    %s throughput: %.1f req/s (mean: %.2fms)\n",
				engine.Name(), tp.RequestsPerSec, tp.MeanTimeMs)
		}

		report.Results = append(report.Results, results...)
	}

	r.collector.Clear()

	return report, nil
}

// concurrent runs the configured number of batches of concurrency identical
// requests, waiting for each batch before starting the next.
func (r *Runner) concurrent(ctx context.Context, engine Engine, concurrency int) ([]MetricResult, error) {
	query := Queries[ConcurrentQuery]
	samples := make([]MetricResult, 0, concurrency*r.opts.ConcurrentBatches)

	for batch := 0; batch < r.opts.ConcurrentBatches; batch++ {
		batchSamples := make([]MetricResult, concurrency)

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < concurrency; i++ {
			g.Go(func() error {
				batchSamples[i] = r.collector.Measure(gctx,
					fmt.Sprintf("%s_concurrent_%d_%d_%d", engine.Name(), concurrency, batch, i),
					engine.Name(), ConcurrentScenario(concurrency), executeFunc(engine, query))
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		samples = append(samples, batchSamples...)
	}

	return samples, nil
}

func executeFunc(engine Engine, query string) QueryFunc {
	return func(ctx context.Context) (any, error) {
		return engine.Execute(ctx, query)
	}
}

func (r *Runner) printComparison(results []BenchmarkResult) {
	if len(results) < 2 {
		return
	}
	fmt.Fprintln(r.out, FormatComparison(results[0], results[1]))
}
