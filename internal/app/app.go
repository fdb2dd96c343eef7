package app

import (
	"context"
	"fmt"
	"log/slog"

	"gqlbench/internal/app/rest"
	"gqlbench/internal/config"
	v1 "gqlbench/internal/http/v1"
	"gqlbench/internal/lib/logger/sl"
	"gqlbench/internal/lib/migrator"
	"gqlbench/internal/metrics"
	"gqlbench/internal/repo"
	"gqlbench/internal/storage"
)

type App struct {
	log     *slog.Logger
	cfg     *config.Config
	storage *storage.Storage
	restApp *rest.App
}

// Prepare migrates the database, opens it and writes the seed dataset when
// seeding is enabled.
func Prepare(ctx context.Context, log *slog.Logger, cfg *config.Config) (*storage.Storage, error) {
	const op = "app.Prepare"

	log = log.With(slog.String("op", op))

	if err := migrator.RunMigrations(cfg.DB, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Seed.Enabled {
		ds, err := repo.NewSeeder(s.DB()).Seed(ctx, SeedSize(cfg.Seed))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("database seeded",
			slog.Int("users", len(ds.Users)),
			slog.Int("teams", len(ds.Teams)),
			slog.Int("sprints", len(ds.Sprints)),
			slog.Int("stories", len(ds.Stories)),
			slog.Int("tasks", len(ds.Tasks)))
	}

	return s, nil
}

func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	s, err := Prepare(context.Background(), log, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	engines, err := NewEngines(log, s.DB(), cfg.GraphQL)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	routerDependencies := v1.RouterDependencies{
		Composition:   engines.Composition,
		FieldResolver: engines.FieldResolver,
		Registry:      metrics.NewRegistry(),
	}

	restApp := rest.New(
		log,
		&routerDependencies,
		cfg.Server,
	)

	return &App{
		log:     log,
		cfg:     cfg,
		storage: s,
		restApp: restApp,
	}, nil
}

func MustNew(log *slog.Logger, cfg *config.Config) *App {
	a, err := New(log, cfg)
	if err != nil {
		log.Error("failed to build application", sl.Err(err))
		panic(err)
	}
	return a
}

func (a *App) MustRun() {
	const op = "app.MustRun"
	a.log.With(slog.String("op", op)).Info("starting application")

	if err := a.restApp.Run(); err != nil {
		panic(err)
	}
}

func (a *App) GracefulShutdown() {
	const op = "app.GracefulShutdown"
	a.log.With(slog.String("op", op)).Info("shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.restApp.Stop(ctx); err != nil {
		a.log.Error("failed to stop HTTP server", sl.Err(err))
	}

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.log.Error("failed to close database", sl.Err(err))
			return
		}
		a.log.Info("database connection closed")
	}
}
