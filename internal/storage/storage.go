package storage

import (
	"fmt"

	"gqlbench/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db     *sqlx.DB
	driver string
}

func Open(cfg config.DBConfig) (*Storage, error) {
	const op = "storage.Open"

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open db: %w", op, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping db: %w", op, err)
	}

	return &Storage{db: db, driver: cfg.Driver}, nil
}

func MustOpen(cfg config.DBConfig) *Storage {
	s, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Storage) DB() *sqlx.DB {
	return s.db
}

func (s *Storage) Driver() string {
	return s.driver
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
