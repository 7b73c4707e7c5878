package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/persistence"
)

// InspectSave prints the raw record of the configured slot.
func InspectSave(ctx context.Context, saves *persistence.Store, out io.Writer) error {
	fmt.Fprintf(out, "Location: %s\n", saves.Location())

	record, err := saves.Inspect(ctx)
	switch {
	case errors.Is(err, domain.ErrSaveNotFound):
		fmt.Fprintln(out, "No save present.")
		return nil
	case errors.Is(err, persistence.ErrVersionMismatch):
		fmt.Fprintf(out, "Save uses schema_version %d and will be ignored (supported: %d).\n",
			record.SchemaVersion, domain.CurrentSchemaVersion)
	case err != nil:
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// DeleteSave removes the record of the configured slot.
func DeleteSave(ctx context.Context, saves *persistence.Store, out io.Writer) error {
	if !saves.HasSave(ctx) {
		fmt.Fprintln(out, "No save present.")
		return nil
	}
	if err := saves.Delete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted save at %s.\n", saves.Location())
	return nil
}
