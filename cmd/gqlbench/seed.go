package main

import (
	"context"
	"fmt"

	"gqlbench/internal/app"
	"gqlbench/internal/lib/migrator"
	"gqlbench/internal/repo"
	"gqlbench/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "Replace the database content with the deterministic dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		if err := migrator.RunMigrations(cfg.DB, log); err != nil {
			return err
		}

		s, err := storage.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer s.Close()

		ds, err := repo.NewSeeder(s.DB()).Seed(context.Background(), app.SeedSize(cfg.Seed))
		if err != nil {
			return err
		}

		fmt.Printf("%s %d users, %d teams, %d sprints, %d stories, %d tasks\n",
			color.HiGreenString("[seeded]"),
			len(ds.Users), len(ds.Teams), len(ds.Sprints), len(ds.Stories), len(ds.Tasks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCommand)
}
