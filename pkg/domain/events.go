package domain

// Phase is the session controller's screen-level state.
type Phase string

const (
	PhaseBoot    Phase = "boot"
	PhaseTitle   Phase = "title"
	PhasePlaying Phase = "playing"
	PhaseEnding  Phase = "ending"
)

// IntentKind enumerates the requests a presentation layer can make.
type IntentKind string

const (
	IntentBeginNew IntentKind = "begin_new"
	IntentContinue IntentKind = "continue"
	IntentChoice   IntentKind = "choice"
	IntentRestart  IntentKind = "restart"
)

// Intent is an abstract player request. Index is only meaningful for IntentChoice.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Index int        `json:"index,omitempty"`
}

// BeginNew returns the "start a new game" intent.
func BeginNew() Intent { return Intent{Kind: IntentBeginNew} }

// Continue returns the "resume from save" intent.
func Continue() Intent { return Intent{Kind: IntentContinue} }

// Choose returns the intent selecting the choice at index.
func Choose(index int) Intent { return Intent{Kind: IntentChoice, Index: index} }

// Restart returns the "back to title" intent.
func Restart() Intent { return Intent{Kind: IntentRestart} }

// Snapshot is published after every processed intent.
// State and View are nil while no session is active (Boot and Title).
type Snapshot struct {
	Phase    Phase     `json:"phase"`
	State    *State    `json:"state,omitempty"`
	View     *NodeView `json:"view,omitempty"`
	IsEnding bool      `json:"is_ending"`
	HasSave  bool      `json:"has_save"`

	// Notice carries a non-fatal message about the last intent (e.g. a rejected choice).
	Notice string `json:"notice,omitempty"`
}
