package storage

import (
	"path/filepath"
	"testing"

	"gqlbench/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	s, err := Open(config.DBConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 2,
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, config.DriverSQLite, s.Driver())

	var fk int
	require.NoError(t, s.DB().Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "nope"})
	assert.Error(t, err)
}
