package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/pkg/adapters/file"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/ports"
)

const (
	// AppDir is the per-application directory created under the user data directory.
	AppDir = "routes64"
	// DefaultSlot is the slot used when none is selected; it maps to save.json.
	DefaultSlot = "save"
)

// Store persists a single session state in one slot of a SaveStore.
type Store struct {
	backend  ports.SaveStore
	slot     string
	location string
	logger   *slog.Logger
}

type config struct {
	dir     string
	backend ports.SaveStore
	slot    string
	logger  *slog.Logger
}

// Option configures Open.
type Option func(*config)

// WithDir stores saves as files in dir instead of the user data directory.
func WithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

// WithBackend uses backend instead of the file store.
func WithBackend(backend ports.SaveStore) Option {
	return func(c *config) {
		c.backend = backend
	}
}

// WithSlot selects the save slot.
func WithSlot(slot string) Option {
	return func(c *config) {
		if slot != "" {
			c.slot = slot
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// DefaultDir returns the platform data directory for saves.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, AppDir)
}

// Open prepares a Store. Without WithBackend the file backend is used, rooted at
// WithDir or DefaultDir; the directory is created when missing.
func Open(opts ...Option) (*Store, error) {
	cfg := config{slot: DefaultSlot, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend := cfg.backend
	if backend == nil {
		dir := cfg.dir
		if dir == "" {
			if xdg.DataHome == "" {
				return nil, newError(OpInit, cfg.slot, ErrInitFailed, errors.New("no user data directory available"))
			}
			dir = DefaultDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newError(OpInit, cfg.slot, ErrInitFailed, err)
		}
		backend = file.New(dir)
	}

	s := &Store{backend: backend, slot: cfg.slot, logger: cfg.logger}
	if l, ok := backend.(interface{ Path(string) string }); ok {
		s.location = l.Path(cfg.slot)
	} else {
		s.location = fmt.Sprintf("%T#%s", backend, cfg.slot)
	}
	return s, nil
}

// OpenOrDisabled is Open that logs an init failure and falls back to Disabled.
func OpenOrDisabled(logger *slog.Logger, opts ...Option) *Store {
	store, err := Open(append(opts, WithLogger(logger))...)
	if err != nil {
		if logger == nil {
			logger = logging.NewNop()
		}
		logger.Warn("persistence disabled", "err", err)
		return Disabled()
	}
	return store
}

// Disabled returns a Store that saves nothing and never has a save.
func Disabled() *Store {
	return &Store{slot: DefaultSlot, logger: logging.NewNop()}
}

// Enabled reports whether the Store has a backend.
func (s *Store) Enabled() bool {
	return s.backend != nil
}

// Location describes where the slot is stored, for diagnostics.
func (s *Store) Location() string {
	if !s.Enabled() {
		return "disabled"
	}
	return s.location
}

// Slot returns the selected slot.
func (s *Store) Slot() string {
	return s.slot
}

// Save writes state in the current schema version. Disabled stores return nil.
func (s *Store) Save(ctx context.Context, state domain.State) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.backend.Save(ctx, s.slot, domain.RecordFromState(state)); err != nil {
		return newError(OpSave, s.slot, ErrSaveFailed, err)
	}
	s.logger.Debug("state saved", "slot", s.slot, "node_id", state.ID, "depth", state.Depth)
	return nil
}

// Load returns the saved state, or nil when there is none.
//
// A record written with another schema version is discarded with a warning and reported
// as no save. Read and decode failures return an *Error matching ErrLoadFailed.
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	if !s.Enabled() {
		return nil, nil
	}

	record, err := s.backend.Load(ctx, s.slot)
	if err != nil {
		if errors.Is(err, domain.ErrSaveNotFound) {
			return nil, nil
		}
		return nil, newError(OpLoad, s.slot, ErrLoadFailed, err)
	}

	if !record.IsCurrent() {
		s.logger.Warn("discarding save with unsupported schema version",
			"slot", s.slot,
			"schema_version", record.SchemaVersion,
			"supported", domain.CurrentSchemaVersion,
		)
		return nil, nil
	}

	if record.Current == "" {
		return nil, newError(OpLoad, s.slot, ErrLoadFailed, errors.New("save has no current node"))
	}
	if !record.DepthConsistent() {
		s.logger.Warn("save depth disagrees with node id, recomputing",
			"slot", s.slot, "node_id", record.Current, "depth", record.Depth)
	}

	state := record.State()
	return &state, nil
}

// Inspect returns the raw record without discarding foreign versions.
// A foreign version is returned together with ErrVersionMismatch.
func (s *Store) Inspect(ctx context.Context) (domain.SaveRecord, error) {
	if !s.Enabled() {
		return domain.SaveRecord{}, domain.ErrSaveNotFound
	}
	record, err := s.backend.Load(ctx, s.slot)
	if err != nil {
		if errors.Is(err, domain.ErrSaveNotFound) {
			return domain.SaveRecord{}, err
		}
		return domain.SaveRecord{}, newError(OpInspect, s.slot, ErrLoadFailed, err)
	}
	if !record.IsCurrent() {
		return record, newError(OpInspect, s.slot, ErrVersionMismatch,
			fmt.Errorf("schema_version %d, supported %d", record.SchemaVersion, domain.CurrentSchemaVersion))
	}
	return record, nil
}

// HasSave reports whether the slot holds a record. The record is not decoded.
func (s *Store) HasSave(ctx context.Context) bool {
	if !s.Enabled() {
		return false
	}
	ok, err := s.backend.Exists(ctx, s.slot)
	if err != nil {
		s.logger.Warn("save existence check failed", "slot", s.slot, "err", err)
		return false
	}
	return ok
}

// Delete removes the record in the slot.
func (s *Store) Delete(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.backend.Delete(ctx, s.slot); err != nil {
		return newError(OpDelete, s.slot, ErrDeleteFailed, err)
	}
	return nil
}

// Close releases the backend when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
