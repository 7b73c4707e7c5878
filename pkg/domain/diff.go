package domain

// SnapshotDiff describes what changed between two consecutive snapshots.
type SnapshotDiff struct {
	// PhaseChanged is set when the phase differs; From/To hold both ends.
	PhaseChanged bool
	From         Phase
	To           Phase

	// Visited holds trail entries appended since the previous snapshot.
	Visited []string

	// SessionStarted is set when a session became active (fresh or continued).
	SessionStarted bool
}

// Diff calculates the difference between prev and next.
// If prev is nil, next is treated as the initial snapshot.
func Diff(prev, next *Snapshot) *SnapshotDiff {
	if next == nil {
		return nil
	}

	diff := &SnapshotDiff{To: next.Phase}
	if prev == nil {
		diff.PhaseChanged = true
		if next.State != nil {
			diff.SessionStarted = true
			diff.Visited = append([]string(nil), next.State.Trail...)
		}
		return diff
	}

	diff.From = prev.Phase
	diff.PhaseChanged = prev.Phase != next.Phase
	diff.Visited = diffTrail(prev.State, next.State)
	diff.SessionStarted = next.State != nil && (prev.State == nil || !isPrefix(prev.State.Trail, next.State.Trail))

	if diff.SessionStarted {
		diff.Visited = append([]string(nil), next.State.Trail...)
	}

	return diff
}

// diffTrail assumes append-only trails within a session.
func diffTrail(prev, next *State) []string {
	if next == nil || len(next.Trail) == 0 {
		return nil
	}
	if prev == nil {
		return append([]string(nil), next.Trail...)
	}
	if len(next.Trail) > len(prev.Trail) && isPrefix(prev.Trail, next.Trail) {
		return append([]string(nil), next.Trail[len(prev.Trail):]...)
	}
	return nil
}

func isPrefix(prefix, full []string) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether nothing observable changed.
func (d *SnapshotDiff) IsEmpty() bool {
	return d == nil || (!d.PhaseChanged && !d.SessionStarted && len(d.Visited) == 0)
}
