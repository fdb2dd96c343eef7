package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, []int{10, 50, 100}, cfg.Benchmark.ConcurrencyLevels)
	assert.Equal(t, time.Millisecond, cfg.GraphQL.LoaderWait)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("BENCH_CONCURRENCY_LEVELS", "1,2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, []int{1, 2}, cfg.Benchmark.ConcurrencyLevels)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\nseed:\n  teams: 2\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, 2, cfg.Seed.Teams)
	assert.Equal(t, 5, cfg.Seed.StoriesPerSprint)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	pg := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", DbName: "d", SslMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", pg.DSN())

	lite := DBConfig{Driver: DriverSQLite, Path: "/tmp/x.db"}
	assert.Equal(t, "file:/tmp/x.db?_foreign_keys=on&_busy_timeout=5000", lite.DSN())
}
