// Package config reads routes64 settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Save backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config holds process-wide settings. Command-line flags override these values.
type Config struct {
	Scenario        string `env:"ROUTES64_SCENARIO" envDefault:"assets/scenario.json"`
	SaveDir         string `env:"ROUTES64_SAVE_DIR"`
	SaveSlot        string `env:"ROUTES64_SAVE_SLOT" envDefault:"save"`
	SaveBackend     string `env:"ROUTES64_SAVE_BACKEND" envDefault:"file"`
	RedisURL        string `env:"ROUTES64_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath      string `env:"ROUTES64_SQLITE_PATH"`
	LogLevel        string `env:"ROUTES64_LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"ROUTES64_LOG_FORMAT" envDefault:"text"`
	AllowDuplicates bool   `env:"ROUTES64_ALLOW_DUPLICATES"`
	HTTPAddr        string `env:"ROUTES64_HTTP_ADDR" envDefault:":8080"`
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse reads the process environment without validating, so callers can apply
// overrides before calling Validate.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.SaveBackend {
	case BackendFile, BackendMemory, BackendRedis, BackendSQLite, BackendNone:
	default:
		return fmt.Errorf("unknown save backend %q (want file, memory, redis, sqlite or none)", c.SaveBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if c.Scenario == "" {
		return fmt.Errorf("scenario path is required")
	}
	return nil
}
