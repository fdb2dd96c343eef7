package migrator

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"gqlbench/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var fs embed.FS

// RunMigrations applies the embedded migrations for cfg.Driver.
// The migration connection is private: closing the migrate instance closes it.
func RunMigrations(cfg config.DBConfig, log *slog.Logger) error {
	const op = "migrator.RunMigrations"

	migrationDB, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	var driver database.Driver
	switch cfg.Driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(migrationDB.DB, &postgres.Config{})
	case config.DriverSQLite:
		driver, err = sqlite3.WithInstance(migrationDB.DB, &sqlite3.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		migrationDB.Close()
		return fmt.Errorf("%s: failed to create driver: %w", op, err)
	}

	source, err := iofs.New(fs, "migrations/"+cfg.Driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("%s: failed to create source: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("%s: failed to create migrate instance: %w", op, err)
	}
	defer m.Close()

	log.Info("applying database migrations", slog.String("driver", cfg.Driver))
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: migration failed: %w", op, err)
	}

	return nil
}
