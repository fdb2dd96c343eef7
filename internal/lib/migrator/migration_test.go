package migrator

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gqlbench/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsSQLite(t *testing.T) {
	cfg := config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "m.db")}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, RunMigrations(cfg, log))
	// second run is a no-op
	require.NoError(t, RunMigrations(cfg, log))

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations' ORDER BY name`))
	assert.Equal(t, []string{"sprints", "stories", "tasks", "team_users", "teams", "users"}, tables)
}

func TestRunMigrationsUnknownDriver(t *testing.T) {
	err := RunMigrations(config.DBConfig{Driver: "nope"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
