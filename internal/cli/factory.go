// Package cli implements the routes64 commands on top of the library packages.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/routes64"
	"github.com/aretw0/routes64/internal/config"
	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/pkg/adapters/memory"
	"github.com/aretw0/routes64/pkg/adapters/redis"
	"github.com/aretw0/routes64/pkg/adapters/sqlite"
	"github.com/aretw0/routes64/pkg/persistence"
	"github.com/aretw0/routes64/pkg/scenario"
)

// NewLogger builds the process logger from the configuration.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(cfg.LogFormat, level), nil
}

// OpenSaves opens the configured save backend.
// Any failure is logged and degrades to a disabled store so play can go on.
func OpenSaves(ctx context.Context, cfg config.Config, logger *slog.Logger) *persistence.Store {
	opts := []persistence.Option{persistence.WithSlot(cfg.SaveSlot)}

	switch cfg.SaveBackend {
	case config.BackendNone:
		logger.Info("persistence disabled by configuration")
		return persistence.Disabled()

	case config.BackendMemory:
		opts = append(opts, persistence.WithBackend(memory.NewStore()))

	case config.BackendRedis:
		store, err := redis.New(cfg.RedisURL)
		if err == nil {
			err = store.Ping(ctx)
		}
		if err != nil {
			logger.Warn("persistence disabled", "backend", cfg.SaveBackend, "err", err)
			return persistence.Disabled()
		}
		opts = append(opts, persistence.WithBackend(store))

	case config.BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir := cfg.SaveDir
			if dir == "" {
				dir = persistence.DefaultDir()
			}
			path = filepath.Join(dir, "saves.db")
		}
		store, err := sqlite.Open(path)
		if err != nil {
			logger.Warn("persistence disabled", "backend", cfg.SaveBackend, "err", err)
			return persistence.Disabled()
		}
		opts = append(opts, persistence.WithBackend(store))

	default:
		if cfg.SaveDir != "" {
			opts = append(opts, persistence.WithDir(cfg.SaveDir))
		}
	}

	saves := persistence.OpenOrDisabled(logger, opts...)
	logger.Debug("persistence ready", "backend", cfg.SaveBackend, "location", saves.Location(), "slot", saves.Slot())
	return saves
}

// ScenarioOptions maps the configuration to loader options.
func ScenarioOptions(cfg config.Config, logger *slog.Logger) []scenario.Option {
	opts := []scenario.Option{scenario.WithLogger(logger)}
	if cfg.AllowDuplicates {
		opts = append(opts, scenario.WithDuplicatePolicy(scenario.LastWins))
	}
	return opts
}

// NewGame loads the scenario and opens persistence.
// A scenario that fails to load aborts before the title screen.
func NewGame(ctx context.Context, cfg config.Config, logger *slog.Logger) (*routes64.Game, error) {
	nodes, err := scenario.LoadFile(cfg.Scenario, ScenarioOptions(cfg, logger)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", cfg.Scenario, err)
	}
	return routes64.NewFromStore(nodes,
		routes64.WithLogger(logger),
		routes64.WithPersistence(OpenSaves(ctx, cfg, logger)),
	), nil
}
