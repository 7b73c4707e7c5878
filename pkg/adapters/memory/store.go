package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/routes64/pkg/domain"
)

// Store implements ports.SaveStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.SaveRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.SaveRecord),
	}
}

// Save keeps a copy of the record.
func (s *Store) Save(ctx context.Context, slot string, record domain.SaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[slot] = copyRecord(record)
	return nil
}

// Load returns a copy so callers cannot mutate the stored trail.
func (s *Store) Load(ctx context.Context, slot string) (domain.SaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[slot]
	if !ok {
		return domain.SaveRecord{}, domain.ErrSaveNotFound
	}
	return copyRecord(record), nil
}

// Exists reports whether slot holds a record.
func (s *Store) Exists(ctx context.Context, slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[slot]
	return ok, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, slot)
	return nil
}

// List returns all slots in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]string, 0, len(s.data))
	for k := range s.data {
		slots = append(slots, k)
	}
	sort.Strings(slots)
	return slots, nil
}

func copyRecord(r domain.SaveRecord) domain.SaveRecord {
	out := r
	if r.Trail != nil {
		out.Trail = append([]string(nil), r.Trail...)
	}
	return out
}
