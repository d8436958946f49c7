package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitlife/internal/config"
)

// Open connects the backend selected by cfg.Driver. Postgres databases are
// migrated from migrationsPath before use; SQLite creates its schema itself.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrationsPath string) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := OpenPostgres(ctx, cfg, migrationsPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
