package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/fitlife/internal/config"
)

const (
	poolMaxConns        = 8
	poolMaxConnIdleTime = 5 * time.Minute
	applicationName     = "fitlife"
)

// DB is the Postgres backend. It wraps a pgxpool.Pool.
type DB struct {
	Pool *pgxpool.Pool
}

// OpenPostgres migrates the database described by cfg from migrationsPath
// and connects a pool to it.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, migrationsPath string) (*DB, error) {
	dsn := cfg.DSN()
	if err := RunMigrations(dsn, migrationsPath); err != nil {
		return nil, err
	}
	poolCfg, err := poolConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// poolConfig sizes the pool for a single API process. Live tracking keeps
// no connection open, so a small pool with idle reaping is enough.
func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.MaxConns = poolMaxConns
	cfg.MaxConnIdleTime = poolMaxConnIdleTime
	cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	return cfg, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

// RunMigrations applies all pending migrations from the given directory. A
// dirty schema is reported rather than migrated over.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		return errors.New("schema is dirty; fix the failed migration and force its version")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
