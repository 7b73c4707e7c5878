package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders node text as markdown using glamour.
// If glamour cannot be initialised the text is returned unchanged.
func NewRenderer(wordWrap int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(text string) (string, error) { return text, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
