package scenario

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/routes64/pkg/domain"
)

// checkReferences returns a LoadError listing every choice that targets an undefined node.
func (s *Store) checkReferences() error {
	var errs []error
	for _, id := range s.order {
		for _, c := range s.nodes[id].Choices {
			if _, ok := s.nodes[c.To]; !ok {
				errs = append(errs, fmt.Errorf("%w: node %q references %q", domain.ErrDanglingReference, id, c.To))
			}
		}
	}
	return newLoadError(errs...)
}

// Report holds the non-fatal findings of a scenario load.
type Report struct {
	// ExpectedEndings is 2^depth, the number of canonical leaves.
	ExpectedEndings int
	// FoundEndings counts canonical leaves that exist and carry an ending tag.
	FoundEndings int
	// MissingEndings lists canonical leaves that are absent or untagged.
	MissingEndings []string

	// Unreachable lists defined nodes no path from the root leads to.
	Unreachable []string
	// Irregular lists identifiers that do not follow the root-plus-bits scheme.
	Irregular []string
}

// EndingsComplete reports whether every canonical leaf is a tagged ending.
func (r Report) EndingsComplete() bool {
	return r.FoundEndings == r.ExpectedEndings
}

// Clean reports whether the report holds no findings at all.
func (r Report) Clean() bool {
	return r.EndingsComplete() && len(r.Unreachable) == 0 && len(r.Irregular) == 0
}

// Log writes the findings as warnings.
func (r Report) Log(logger *slog.Logger) {
	if !r.EndingsComplete() {
		logger.Warn("ending coverage mismatch",
			"expected", r.ExpectedEndings,
			"found", r.FoundEndings,
			"missing", r.MissingEndings,
		)
	}
	if len(r.Unreachable) > 0 {
		logger.Warn("unreachable nodes", "nodes", r.Unreachable)
	}
	if len(r.Irregular) > 0 {
		logger.Warn("node ids outside the tree scheme", "nodes", r.Irregular)
	}
}

func (s *Store) lint() Report {
	depth := s.meta.Depth
	r := Report{ExpectedEndings: 1 << depth}

	for _, id := range domain.CanonicalLeafIDs(depth) {
		if node, ok := s.nodes[id]; ok && node.HasEnding() {
			r.FoundEndings++
			continue
		}
		r.MissingEndings = append(r.MissingEndings, id)
	}

	reachable := s.reachableFrom(domain.RootID)
	for _, id := range s.order {
		if !reachable[id] {
			r.Unreachable = append(r.Unreachable, id)
		}
		if !domain.IsTreeID(id, depth) {
			r.Irregular = append(r.Irregular, id)
		}
	}
	return r
}

// reachableFrom crawls choices breadth-first from start.
func (s *Store) reachableFrom(start string) map[string]bool {
	visited := make(map[string]bool)
	if _, ok := s.nodes[start]; !ok {
		return visited
	}

	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, c := range s.nodes[current].Choices {
			if !visited[c.To] {
				queue = append(queue, c.To)
			}
		}
	}
	return visited
}
