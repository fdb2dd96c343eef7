package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"

	"gqlbench/internal/app"
	"gqlbench/internal/app/rest"
	"gqlbench/internal/config"
	v1 "gqlbench/internal/http/v1"
	"gqlbench/internal/lib/migrator"
	"gqlbench/internal/metrics"
	"gqlbench/internal/repo"
	"gqlbench/internal/storage"

	"github.com/jmoiron/sqlx"
)

// Fixtures is the dataset written by LoadFixtures.
var Fixtures = repo.SeedSize{
	Users:            6,
	Teams:            2,
	MembersPerTeam:   3,
	SprintsPerTeam:   2,
	StoriesPerSprint: 2,
	TasksPerStory:    2,
}

type TestServer struct {
	DB      *sqlx.DB
	Server  *httptest.Server
	Dataset repo.Dataset

	storage *storage.Storage
}

// NewTestServer serves the full router over a fresh SQLite database in dir.
func NewTestServer(dir string) (*TestServer, error) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	dbCfg := config.DBConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(dir, "integration.db"),
		MaxOpenConns: 4,
	}

	if err := migrator.RunMigrations(dbCfg, log); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s, err := storage.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	engines, err := app.NewEngines(log, s.DB(), config.GraphQLConfig{MaxParallelism: 10})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to build engines: %w", err)
	}

	r := rest.NewRouter(log, &v1.RouterDependencies{
		Composition:   engines.Composition,
		FieldResolver: engines.FieldResolver,
		Registry:      metrics.NewRegistry(),
	}, []string{"*"})

	return &TestServer{
		DB:      s.DB(),
		Server:  httptest.NewServer(r),
		storage: s,
	}, nil
}

func (s *TestServer) LoadFixtures() error {
	ds, err := repo.NewSeeder(s.DB).Seed(context.Background(), Fixtures)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	s.Dataset = ds
	return nil
}

func (s *TestServer) Close() {
	s.Server.Close()
	s.storage.Close()
}
