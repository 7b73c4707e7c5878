// Package sqlite provides a SQLite-backed save store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/routes64/pkg/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists save records in SQLite, one row per slot.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts the record for slot.
func (s *Store) Save(ctx context.Context, slot string, record domain.SaveRecord) error {
	if err := s.check(ctx, slot); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal save record: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO saves (slot, record, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		slot, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Load returns the record for slot.
func (s *Store) Load(ctx context.Context, slot string) (domain.SaveRecord, error) {
	if err := s.check(ctx, slot); err != nil {
		return domain.SaveRecord{}, err
	}
	var raw string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT record FROM saves WHERE slot = ?`, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SaveRecord{}, domain.ErrSaveNotFound
	}
	if err != nil {
		return domain.SaveRecord{}, fmt.Errorf("load slot %s: %w", slot, err)
	}

	record, err := domain.DecodeSaveRecord([]byte(raw))
	if err != nil {
		return domain.SaveRecord{}, fmt.Errorf("slot %s: %w", slot, err)
	}
	return record, nil
}

// Exists reports whether slot has a row.
func (s *Store) Exists(ctx context.Context, slot string) (bool, error) {
	if err := s.check(ctx, slot); err != nil {
		return false, err
	}
	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM saves WHERE slot = ?`, slot).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check slot %s: %w", slot, err)
	}
	return true, nil
}

// Delete removes the row for slot.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := s.check(ctx, slot); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// List returns every slot ordered by name.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := s.check(ctx, "-"); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT slot FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (s *Store) check(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(slot) == "" {
		return fmt.Errorf("slot is required")
	}
	return nil
}
