package domain

import (
	"encoding/json"
	"fmt"
)

// CurrentSchemaVersion is the only save record layout this build reads or writes.
const CurrentSchemaVersion = 1

// SaveRecord is the durable, flattened form of a State.
type SaveRecord struct {
	SchemaVersion int      `json:"schema_version"`
	Current       string   `json:"current"`
	Depth         int      `json:"depth"`
	Trail         []string `json:"trail"`
}

// RecordFromState projects a State onto the current save layout.
func RecordFromState(s State) SaveRecord {
	return SaveRecord{
		SchemaVersion: CurrentSchemaVersion,
		Current:       s.ID,
		Depth:         s.Depth,
		Trail:         append([]string(nil), s.Trail...),
	}
}

// State rebuilds the traversal state. Depth is taken from Current, not from the stored field.
func (r SaveRecord) State() State {
	return StateAt(r.Current, r.Trail)
}

// IsCurrent reports whether the record uses the supported schema version.
func (r SaveRecord) IsCurrent() bool {
	return r.SchemaVersion == CurrentSchemaVersion
}

// DepthConsistent reports whether the stored depth agrees with the identifier.
func (r SaveRecord) DepthConsistent() bool {
	return r.Depth == Depth(r.Current)
}

// DecodeSaveRecord reads schema_version before anything else. A record of another
// version comes back with only SchemaVersion set, so layout changes in future
// versions never surface as decode errors here.
func DecodeSaveRecord(data []byte) (SaveRecord, error) {
	var header struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return SaveRecord{}, fmt.Errorf("failed to read save schema version: %w", err)
	}
	if header.SchemaVersion != CurrentSchemaVersion {
		return SaveRecord{SchemaVersion: header.SchemaVersion}, nil
	}

	var record SaveRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return SaveRecord{}, fmt.Errorf("failed to unmarshal save record: %w", err)
	}
	return record, nil
}
