package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	root := NewState()
	atR1 := root.Advance("R1")

	tests := []struct {
		name string
		prev *Snapshot
		next *Snapshot
		want *SnapshotDiff
	}{
		{
			name: "Initial Snapshot",
			prev: nil,
			next: &Snapshot{Phase: PhaseTitle},
			want: &SnapshotDiff{PhaseChanged: true, To: PhaseTitle},
		},
		{
			name: "Begin New",
			prev: &Snapshot{Phase: PhaseTitle},
			next: &Snapshot{Phase: PhasePlaying, State: &root},
			want: &SnapshotDiff{PhaseChanged: true, From: PhaseTitle, To: PhasePlaying, SessionStarted: true, Visited: []string{"R"}},
		},
		{
			name: "Choice Appends",
			prev: &Snapshot{Phase: PhasePlaying, State: &root},
			next: &Snapshot{Phase: PhasePlaying, State: &atR1},
			want: &SnapshotDiff{From: PhasePlaying, To: PhasePlaying, Visited: []string{"R1"}},
		},
		{
			name: "Rejected Choice",
			prev: &Snapshot{Phase: PhasePlaying, State: &atR1},
			next: &Snapshot{Phase: PhasePlaying, State: &atR1},
			want: &SnapshotDiff{From: PhasePlaying, To: PhasePlaying},
		},
		{
			name: "Restart",
			prev: &Snapshot{Phase: PhaseEnding, State: &atR1},
			next: &Snapshot{Phase: PhaseTitle},
			want: &SnapshotDiff{PhaseChanged: true, From: PhaseEnding, To: PhaseTitle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.prev, tt.next))
		})
	}
}

func TestDiff_IsEmpty(t *testing.T) {
	s := NewState()
	assert.True(t, Diff(&Snapshot{Phase: PhasePlaying, State: &s}, &Snapshot{Phase: PhasePlaying, State: &s}).IsEmpty())
	assert.Nil(t, Diff(nil, nil))
	assert.True(t, (*SnapshotDiff)(nil).IsEmpty())
}
