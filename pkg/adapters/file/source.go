package file

import (
	"context"
	"fmt"
	"os"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/routes64/internal/logging"
)

// Source implements ports.ScenarioSource and ports.Watchable for a scenario file.
type Source struct {
	Path   string
	Logger *slog.Logger
}

// NewSource creates a Source reading path.
func NewSource(path string) *Source {
	return &Source{Path: path, Logger: logging.NewNop()}
}

// Name returns the file path.
func (s *Source) Name() string {
	return s.Path
}

// Read returns the file contents.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

// Watch signals whenever the file is written, created or replaced.
// The parent directory is watched because editors often save by renaming over the file.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(s.Path)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				// Coalesce bursts: one pending signal is enough.
				select {
				case changes <- struct{}{}:
				default:
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log().Warn("scenario watcher error", "path", s.Path, "err", werr)
			}
		}
	}()

	return changes, nil
}

func (s *Source) log() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}
