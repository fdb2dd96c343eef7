package main

import (
	"os"
	"os/signal"
	"syscall"

	"gqlbench/internal/app"

	"github.com/spf13/cobra"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed and serve both GraphQL engines over HTTP",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := app.New(log, cfg)
		if err != nil {
			return err
		}

		go application.MustRun()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		application.GracefulShutdown()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCommand)
}
