package session

import (
	"slices"
	"sync"
)

// Readiness flags owned by the boot collaborator.
const (
	ReadyScenario = "scenario"
	ReadyFont     = "font"
	ReadyAudio    = "audio"
)

// Readiness is a conjunction of named flags. It is ready once every required flag is marked.
// Safe for concurrent use.
type Readiness struct {
	mu       sync.Mutex
	required []string
	marked   map[string]bool
}

// NewReadiness requires each of names before Ready reports true.
// With no names the set is ready immediately.
func NewReadiness(names ...string) *Readiness {
	return &Readiness{
		required: slices.Clone(names),
		marked:   make(map[string]bool, len(names)),
	}
}

// MarkReady sets a flag. Marking an unknown flag adds nothing to the requirement.
func (r *Readiness) MarkReady(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked[name] = true
}

// Ready reports whether all required flags are set.
func (r *Readiness) Ready() bool {
	return len(r.Pending()) == 0
}

// Pending lists the required flags not yet marked.
func (r *Readiness) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []string
	for _, name := range r.required {
		if !r.marked[name] {
			pending = append(pending, name)
		}
	}
	return pending
}
