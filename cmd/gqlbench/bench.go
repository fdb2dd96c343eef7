package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gqlbench/internal/app"
	"gqlbench/internal/benchmark"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	benchQuick     bool
	benchOutputDir string
	verifyJSON     bool
)

var (
	benchCommand = &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the two GraphQL engines",
	}

	benchRunCommand = &cobra.Command{
		Use:   "run",
		Short: "Run every scenario and the concurrent batches, then write results.json and summary.md",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			s, err := app.Prepare(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			engines, err := app.NewEngines(log, s.DB(), cfg.GraphQL)
			if err != nil {
				return err
			}

			opts := benchmark.Options{
				Iterations:        cfg.Benchmark.Iterations,
				ConcurrencyLevels: cfg.Benchmark.ConcurrencyLevels,
				ConcurrentBatches: cfg.Benchmark.ConcurrentBatches,
			}
			if benchQuick {
				opts.Iterations = cfg.Benchmark.QuickIterations
				opts.ConcurrentBatches = cfg.Benchmark.QuickConcurrentBatch
			}

			outputDir := cfg.Benchmark.OutputDir
			if benchOutputDir != "" {
				outputDir = benchOutputDir
			}

			impls := []benchmark.Engine{
				benchmark.CompositionEngine(engines.Composition),
				benchmark.FieldResolverEngine(engines.FieldResolver),
			}

			bold := color.New(color.Bold, color.FgHiWhite)
			bold.Println(strings.Repeat("=", 70))
			bold.Printf("%s vs %s GraphQL Benchmark\n", impls[0].Name(), impls[1].Name())
			bold.Println(strings.Repeat("=", 70))
			started := time.Now()
			fmt.Printf("Started at: %s\n", started.Format(time.DateTime))
			fmt.Printf("Iterations per test: %d\n", opts.Iterations)

			runner := benchmark.NewRunner(log, os.Stdout, opts, impls...)

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Prefix = color.HiGreenString("Warming up (priming caches) ")
			sp.Start()
			runner.Warmup(ctx)
			sp.Stop()
			color.Green("Warmup complete.")

			report, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			names := make([]string, len(impls))
			for i, impl := range impls {
				names[i] = impl.Name()
			}

			path, err := benchmark.WriteResults(outputDir, report, benchmark.Meta{
				Timestamp:         started,
				Iterations:        opts.Iterations,
				ConcurrencyLevels: opts.ConcurrencyLevels,
				ConcurrentBatches: opts.ConcurrentBatches,
				Implementations:   names,
				Driver:            cfg.DB.Driver,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nBenchmark completed in %s\n", time.Since(started).Round(time.Millisecond))
			fmt.Printf("%s %s\n", color.HiCyanString("Report saved to:"), path)
			return nil
		},
	}

	benchVerifyCommand = &cobra.Command{
		Use:   "verify",
		Short: "Check that both engines return the same data for the nested_3_layers query",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()

			s, err := app.Prepare(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			engines, err := app.NewEngines(log, s.DB(), cfg.GraphQL)
			if err != nil {
				return err
			}

			query := benchmark.Queries[benchmark.Nested3Layers]
			a := benchmark.CompositionEngine(engines.Composition)
			b := benchmark.FieldResolverEngine(engines.FieldResolver)

			v, err := benchmark.Verify(ctx, a, b, query)
			if err != nil {
				return err
			}

			if verifyJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			fmt.Println("Testing query:")
			fmt.Println(strings.TrimSpace(query))
			fmt.Println()
			for _, engine := range []benchmark.Engine{a, b} {
				c := v.Counts[engine.Name()]
				fmt.Printf("%-16s %d teams, %d sprints, %d stories, %d tasks\n",
					engine.Name()+":", c.Teams, c.Sprints, c.Stories, c.Tasks)
			}

			if v.Match {
				color.Green("\nData match: true")
				return nil
			}
			color.Red("\nData match: false")
			return fmt.Errorf("engines returned different data")
		},
	}
)

func init() {
	benchRunCommand.Flags().BoolVarP(&benchQuick, "quick", "q", false, `[optional] run the quick configuration (fewer iterations and concurrent batches)`)
	benchRunCommand.Flags().StringVarP(&benchOutputDir, "output-dir", "o", "", `[optional] directory for results.json and summary.md (default is the configured output dir)`)

	benchVerifyCommand.Flags().BoolVar(&verifyJSON, "json", false, `[optional] print the verification as JSON`)

	benchCommand.AddCommand(benchRunCommand, benchVerifyCommand)
	rootCmd.AddCommand(benchCommand)
}
