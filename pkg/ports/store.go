package ports

import (
	"context"

	"github.com/aretw0/routes64/pkg/domain"
)

// SaveStore defines the interface for persisting save records.
// Versioning policy is not the store's concern: it hands back whatever record it holds.
type SaveStore interface {
	// Save persists the record under slot, replacing any previous record.
	Save(ctx context.Context, slot string, record domain.SaveRecord) error

	// Load retrieves the record held in slot.
	// Returns domain.ErrSaveNotFound if the slot is empty.
	Load(ctx context.Context, slot string) (domain.SaveRecord, error)

	// Exists reports whether slot holds a record, without decoding it.
	Exists(ctx context.Context, slot string) (bool, error)

	// Delete removes the record in slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, slot string) error
}

// SlotLister is implemented by stores that can enumerate their slots.
type SlotLister interface {
	List(ctx context.Context) ([]string, error)
}
