package main

import (
	"fmt"

	"gqlbench/internal/app"
	"gqlbench/internal/graph/composition"
	"gqlbench/internal/graph/fieldresolver"

	"github.com/spf13/cobra"
)

var schemaEngine string

var schemaCommand = &cobra.Command{
	Use:   "schema",
	Short: "Print the GraphQL SDL of an engine",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		// building the schemas issues no queries
		engines, err := app.NewEngines(log, nil, cfg.GraphQL)
		if err != nil {
			return err
		}

		switch schemaEngine {
		case composition.Engine:
			fmt.Print(engines.Composition.SDL())
		case fieldresolver.Engine:
			fmt.Print(engines.FieldResolver.SDL())
		default:
			return fmt.Errorf("unknown engine %q (want %s or %s)", schemaEngine, composition.Engine, fieldresolver.Engine)
		}
		return nil
	},
}

func init() {
	schemaCommand.Flags().StringVarP(&schemaEngine, "engine", "e", composition.Engine, `[optional] engine whose schema to print`)

	rootCmd.AddCommand(schemaCommand)
}
