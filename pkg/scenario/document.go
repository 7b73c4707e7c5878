package scenario

// Document is the raw, decoded form of a scenario definition.
type Document struct {
	Meta  MetaDoc   `mapstructure:"meta" validate:"required"`
	Nodes []NodeDoc `mapstructure:"nodes" validate:"required,min=1,dive"`
}

// MetaDoc mirrors the "meta" section.
type MetaDoc struct {
	Title             string `mapstructure:"title" validate:"required"`
	Depth             *int   `mapstructure:"depth" validate:"required,gte=0,lte=24"`
	DefaultBackground string `mapstructure:"default_background"`
	Font              string `mapstructure:"font"`
	RainBGM           string `mapstructure:"rain_bgm"`

	// Extra collects any other key of the section.
	Extra map[string]any `mapstructure:",remain"`
}

// NodeDoc mirrors one entry of "nodes".
type NodeDoc struct {
	ID      string      `mapstructure:"id" validate:"required"`
	Text    string      `mapstructure:"text"`
	Bg      string      `mapstructure:"bg"`
	Choices []ChoiceDoc `mapstructure:"choices" validate:"dive"`
	Ending  *EndingDoc  `mapstructure:"ending"`
}

// ChoiceDoc mirrors one entry of a node's "choices".
type ChoiceDoc struct {
	Label string `mapstructure:"label"`
	To    string `mapstructure:"to" validate:"required"`
}

// EndingDoc mirrors a node's "ending".
type EndingDoc struct {
	Tag string `mapstructure:"tag"`
}
