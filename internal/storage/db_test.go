package storage

import (
	"testing"

	"github.com/claude/fitlife/internal/config"
)

// TestPoolConfig checks the pool limits and the application name are set on
// the parsed DSN without connecting.
func TestPoolConfig(t *testing.T) {
	dsn := config.DatabaseConfig{User: "fit", Password: "pw", Host: "localhost", Port: 5432, Name: "fitlife"}.DSN()
	cfg, err := poolConfig(dsn)
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if cfg.MaxConns != poolMaxConns || cfg.MaxConnIdleTime != poolMaxConnIdleTime {
		t.Errorf("limits = %d / %s", cfg.MaxConns, cfg.MaxConnIdleTime)
	}
	if got := cfg.ConnConfig.RuntimeParams["application_name"]; got != applicationName {
		t.Errorf("application_name = %q", got)
	}
	if cfg.ConnConfig.Database != "fitlife" || cfg.ConnConfig.User != "fit" {
		t.Errorf("conn = %s@%s", cfg.ConnConfig.User, cfg.ConnConfig.Database)
	}
}

// TestPoolConfigBadDSN checks an unparseable DSN is rejected.
func TestPoolConfigBadDSN(t *testing.T) {
	if _, err := poolConfig("postgres://%zz"); err == nil {
		t.Error("bad dsn accepted")
	}
}
