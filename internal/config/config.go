package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Tracking  TrackingConfig  `yaml:"tracking"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey   string        `yaml:"api_key"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TrackingConfig tunes the live session and cardio machinery.
type TrackingConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	SweepSchedule   string        `yaml:"sweep_schedule"`
	DefaultWeightKg float64       `yaml:"default_weight_kg"`
	IndoorSpeedKmh  float64       `yaml:"indoor_speed_kmh"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the configuration used for values absent from the file.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Driver: DriverSQLite, Path: "data/fitlife.db", Port: 5432},
		Auth:     AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Tailscale: TailscaleConfig{
			Hostname: "fitlife",
			StateDir: "tsnet-state",
		},
		Tracking: TrackingConfig{
			TickInterval:    time.Second,
			IdleTimeout:     2 * time.Hour,
			SweepSchedule:   "@every 5m",
			DefaultWeightKg: 70,
			IndoorSpeedKmh:  8,
		},
	}
}

// Load reads config from a YAML file over Default, then applies environment
// variable overrides. Env vars use the prefix FITLIFE_ and underscore-separated paths:
//
//	FITLIFE_SERVER_HOST, FITLIFE_SERVER_PORT,
//	FITLIFE_DB_DRIVER, FITLIFE_DB_PATH, FITLIFE_DB_HOST, FITLIFE_DB_PORT,
//	FITLIFE_DB_NAME, FITLIFE_DB_USER, FITLIFE_DB_PASSWORD, FITLIFE_DB_SSLMODE,
//	FITLIFE_AUTH_API_KEY, FITLIFE_AUTH_TOKEN_TTL,
//	FITLIFE_TAILSCALE_ENABLED, FITLIFE_TAILSCALE_HOSTNAME,
//	FITLIFE_TRACKING_IDLE_TIMEOUT, FITLIFE_TRACKING_SWEEP_SCHEDULE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("FITLIFE_SERVER_HOST", &cfg.Server.Host)
	setInt("FITLIFE_SERVER_PORT", &cfg.Server.Port)
	setString("FITLIFE_DB_DRIVER", &cfg.Database.Driver)
	setString("FITLIFE_DB_PATH", &cfg.Database.Path)
	setString("FITLIFE_DB_HOST", &cfg.Database.Host)
	setInt("FITLIFE_DB_PORT", &cfg.Database.Port)
	setString("FITLIFE_DB_NAME", &cfg.Database.Name)
	setString("FITLIFE_DB_USER", &cfg.Database.User)
	setString("FITLIFE_DB_PASSWORD", &cfg.Database.Password)
	setString("FITLIFE_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("FITLIFE_AUTH_API_KEY", &cfg.Auth.APIKey)
	setDuration("FITLIFE_AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	if v := os.Getenv("FITLIFE_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString("FITLIFE_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setDuration("FITLIFE_TRACKING_IDLE_TIMEOUT", &cfg.Tracking.IdleTimeout)
	setString("FITLIFE_TRACKING_SWEEP_SCHEDULE", &cfg.Tracking.SweepSchedule)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Tracking.TickInterval <= 0 {
		return fmt.Errorf("tracking.tick_interval must be positive")
	}
	if c.Tracking.IdleTimeout <= 0 {
		return fmt.Errorf("tracking.idle_timeout must be positive")
	}
	if c.Tracking.SweepSchedule == "" {
		return fmt.Errorf("tracking.sweep_schedule is required")
	}
	if c.Tracking.DefaultWeightKg <= 0 {
		return fmt.Errorf("tracking.default_weight_kg must be positive")
	}
	if c.Tracking.IndoorSpeedKmh < 1 {
		return fmt.Errorf("tracking.indoor_speed_kmh must be at least 1")
	}
	return nil
}
