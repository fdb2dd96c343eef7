// Package testdb provides migrated SQLite databases for tests.
package testdb

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gqlbench/internal/config"
	"gqlbench/internal/lib/migrator"
	"gqlbench/internal/repo"
	"gqlbench/internal/storage"

	"github.com/jmoiron/sqlx"
)

// Small is the dataset most tests run against: 2 teams x 2 sprints x 2 stories x 2 tasks.
var Small = repo.SeedSize{
	Users:            6,
	Teams:            2,
	MembersPerTeam:   3,
	SprintsPerTeam:   2,
	StoriesPerSprint: 2,
	TasksPerStory:    2,
}

func Config(t testing.TB) config.DBConfig {
	t.Helper()
	return config.DBConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
	}
}

// New returns an empty, migrated database closed at the end of the test.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := Config(t)
	if err := migrator.RunMigrations(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	s, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s.DB()
}

// Seeded returns a migrated database filled with the dataset for size.
func Seeded(t testing.TB, size repo.SeedSize) (*sqlx.DB, repo.Dataset) {
	t.Helper()

	db := New(t)
	ds, err := repo.NewSeeder(db).Seed(context.Background(), size)
	if err != nil {
		t.Fatalf("failed to seed test db: %v", err)
	}

	return db, ds
}
