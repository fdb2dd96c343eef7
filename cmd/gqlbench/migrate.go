package main

import (
	"gqlbench/internal/lib/migrator"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database migrations for the configured driver",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		if err := migrator.RunMigrations(cfg.DB, log); err != nil {
			return err
		}

		color.Green("[done] migrations applied (%s)", cfg.DB.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCommand)
}
