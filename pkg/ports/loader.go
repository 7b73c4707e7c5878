package ports

import "context"

// ScenarioSource defines where the raw scenario definition comes from.
type ScenarioSource interface {
	// Read returns the full scenario document.
	Read(ctx context.Context) ([]byte, error)

	// Name identifies the source in logs (e.g. a file path).
	Name() string
}

// Watchable defines an interface for sources that can notify about content changes.
// This is typically used for re-validation while authoring.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying content changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
