// Package runtime implements the scenario engine: pure transition and query logic
// over a NodeStore and a traversal State.
package runtime

import (
	"log/slog"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/pkg/domain"
)

// NodeStore is the read-only view of the scenario the engine needs.
type NodeStore interface {
	Get(id string) (domain.Node, bool)
	GetOrFallback(id string) domain.Node
	Meta() domain.Meta
	Depth() int
}

// Engine is the core transition logic. It holds no session state.
type Engine struct {
	store  NodeStore
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine over store.
func NewEngine(store NodeStore, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying node store.
func (e *Engine) Store() NodeStore {
	return e.store
}

// Transition returns the state reached by taking the choice at index from state.
// The input state is never modified.
func (e *Engine) Transition(state domain.State, index int) (domain.State, error) {
	node, ok := e.store.Get(state.ID)
	if !ok {
		return domain.State{}, &TransitionError{Kind: domain.ErrNodeNotFound, NodeID: state.ID, Index: index}
	}

	if index < 0 || index >= len(node.Choices) {
		return domain.State{}, &TransitionError{
			Kind:    domain.ErrInvalidChoiceIndex,
			NodeID:  state.ID,
			Index:   index,
			Choices: len(node.Choices),
		}
	}

	next := state.Advance(node.Choices[index].To)
	e.logger.Debug("transition", "from", state.ID, "choice", index, "node_id", next.ID, "depth", next.Depth)
	return next, nil
}

// IsEnding reports whether state sits at full depth on a node tagged as an ending.
// An untagged node at full depth is a dead branch, not an ending.
func (e *Engine) IsEnding(state domain.State) bool {
	if state.Depth != e.store.Depth() {
		return false
	}
	node, ok := e.store.Get(state.ID)
	return ok && node.HasEnding()
}

// View projects the node at state for presentation.
// Unknown identifiers resolve through the store's fallback policy.
func (e *Engine) View(state domain.State) domain.NodeView {
	node := e.store.GetOrFallback(state.ID)

	view := domain.NodeView{
		ID:         node.ID,
		Text:       node.Text,
		Background: node.BackgroundOr(e.store.Meta().DefaultBackground),
		Choices:    make([]string, len(node.Choices)),
		IsEnding:   e.IsEnding(state),
	}
	for i, c := range node.Choices {
		view.Choices[i] = c.Label
	}
	if node.Ending != nil {
		view.EndingTag = node.Ending.Tag
	}
	return view
}
