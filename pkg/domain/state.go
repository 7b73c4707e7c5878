package domain

import "slices"

// State is the traversal position of a play session.
//
// Depth is always derived from ID. States are values: every transition produces a
// new State and never mutates the previous one.
type State struct {
	// ID is the identifier of the current node.
	ID string `json:"id"`

	// Depth equals Depth(ID).
	Depth int `json:"depth"`

	// Trail lists every node visited since the session started, root included.
	Trail []string `json:"trail"`
}

// NewState creates the fresh state positioned at the root.
func NewState() State {
	return State{
		ID:    RootID,
		Depth: 0,
		Trail: []string{RootID},
	}
}

// StateAt builds a state positioned at id with the given trail.
// The trail is copied and depth is recomputed from id.
func StateAt(id string, trail []string) State {
	return State{
		ID:    id,
		Depth: Depth(id),
		Trail: slices.Clone(trail),
	}
}

// Advance returns a new state positioned at next, with next appended to a copy of the trail.
func (s State) Advance(next string) State {
	trail := make([]string, len(s.Trail), len(s.Trail)+1)
	copy(trail, s.Trail)
	return State{
		ID:    next,
		Depth: Depth(next),
		Trail: append(trail, next),
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return StateAt(s.ID, s.Trail)
}

// Equal reports whether two states describe the same position and history.
func (s State) Equal(o State) bool {
	return s.ID == o.ID && s.Depth == o.Depth && slices.Equal(s.Trail, o.Trail)
}

// IsRoot reports whether no choice has been made yet.
func (s State) IsRoot() bool {
	return s.Depth == 0
}
