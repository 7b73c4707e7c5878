package domain

// Node represents one narrative beat of the scenario tree.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`

	// Background is an optional asset reference. Empty means "use the scenario default".
	Background string `json:"bg,omitempty" yaml:"bg,omitempty"`

	// Choices holds either zero (leaf) or exactly two entries.
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Ending is present iff the node is a canonical terminal outcome.
	Ending *Ending `json:"ending,omitempty" yaml:"ending,omitempty"`
}

// Choice is a labeled edge to another node.
type Choice struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to" yaml:"to"`
}

// Ending tags a node as a canonical outcome.
type Ending struct {
	Tag string `json:"tag" yaml:"tag"`
}

// IsLeaf reports whether the node offers no choices.
func (n Node) IsLeaf() bool {
	return len(n.Choices) == 0
}

// HasEnding reports whether the node carries an ending tag.
func (n Node) HasEnding() bool {
	return n.Ending != nil
}

// BackgroundOr returns the node background, or def when the node has none.
func (n Node) BackgroundOr(def string) string {
	if n.Background == "" {
		return def
	}
	return n.Background
}

// Meta holds scenario-wide settings.
type Meta struct {
	Title             string `json:"title" yaml:"title"`
	Depth             int    `json:"depth" yaml:"depth"`
	DefaultBackground string `json:"default_background" yaml:"default_background"`

	// Font and RainBGM are opaque references handed to presentation collaborators.
	Font    string `json:"font,omitempty" yaml:"font,omitempty"`
	RainBGM string `json:"rain_bgm,omitempty" yaml:"rain_bgm,omitempty"`

	// Extra keeps any unrecognized meta keys untouched.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NodeView is the presentation-facing projection of the current node.
type NodeView struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Background string   `json:"background"`
	Choices    []string `json:"choices"`
	EndingTag  string   `json:"ending_tag,omitempty"`
	IsEnding   bool     `json:"is_ending"`
}
