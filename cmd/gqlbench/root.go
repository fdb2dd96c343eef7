package main

import (
	"fmt"
	"log/slog"
	"os"

	"gqlbench/internal/config"
	"gqlbench/internal/lib/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gqlbench",
		Short: "Batched versus per-field GraphQL resolution, served and benchmarked",
		Long: `gqlbench serves one Team/Sprint/Story/Task graph through two GraphQL engines:
a declarative engine that resolves relationships breadth-first in batches, and a
per-field resolver engine backed by dataloaders. It also benchmarks them against
each other.`,
		SilenceUsage: true,
	}

	configPath string
)

func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		panicRed(err)
	}
}

func panicRed(err error) {
	fmt.Println(color.RedString("[err] %s", err.Error()))
	os.Exit(1)
}

// loadConfig reads the configuration, honouring --config over CONFIG_PATH.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if configPath != "" {
		if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.New(cfg.Env, os.Stderr), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", `[optional] path to a YAML/ENV config file (default is the CONFIG_PATH environment variable)`)

	rootCmd.InitDefaultVersionFlag()
}
