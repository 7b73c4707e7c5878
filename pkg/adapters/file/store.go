package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/routes64/pkg/domain"
)

// Store implements ports.SaveStore using the local filesystem.
// Each slot is a pretty-printed JSON file named <slot>.json in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store rooted at basePath.
// If basePath is empty, it defaults to ".routes64/saves".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".routes64", "saves")
	}
	return &Store{BasePath: basePath}
}

// Path returns the file backing slot.
func (s *Store) Path(slot string) string {
	return filepath.Join(s.BasePath, slot+".json")
}

// Save persists the record atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, slot string, record domain.SaveRecord) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure save directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save record: %w", err)
	}

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+slot+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.Path(slot)
	if err := os.Rename(tmpPath, destPath); err != nil {
		// Windows refuses to rename over an existing file: remove and retry once.
		if _, statErr := os.Stat(destPath); statErr != nil {
			return fmt.Errorf("failed to rename temp file to save file: %w", err)
		}
		if rmErr := os.Remove(destPath); rmErr != nil {
			return fmt.Errorf("failed to replace existing save file: %w", rmErr)
		}
		if err := os.Rename(tmpPath, destPath); err != nil {
			return fmt.Errorf("failed to rename temp file to save file: %w", err)
		}
	}

	return nil
}

// Load reads the record in slot.
func (s *Store) Load(ctx context.Context, slot string) (domain.SaveRecord, error) {
	if err := checkSlot(slot); err != nil {
		return domain.SaveRecord{}, err
	}

	data, err := os.ReadFile(s.Path(slot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.SaveRecord{}, domain.ErrSaveNotFound
		}
		return domain.SaveRecord{}, fmt.Errorf("failed to read save file: %w", err)
	}

	return domain.DecodeSaveRecord(data)
}

// Exists checks for the save file without reading it.
func (s *Store) Exists(ctx context.Context, slot string) (bool, error) {
	if err := checkSlot(slot); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(slot))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat save file: %w", err)
}

// Delete removes the save file.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.Path(slot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

// List returns every slot with a save file.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	var slots []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		slots = append(slots, strings.TrimSuffix(name, ".json"))
	}
	return slots, nil
}

func checkSlot(slot string) error {
	if slot == "" {
		return fmt.Errorf("slot cannot be empty")
	}
	if strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return fmt.Errorf("invalid slot name %q", slot)
	}
	return nil
}
