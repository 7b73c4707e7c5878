// Package graph renders a scenario as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/routes64/pkg/domain"
)

// Overlay contains traversal data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay highlighting the trail of state.
func OverlayFromState(state domain.State) *Overlay {
	return &Overlay{VisitedNodes: state.Trail, CurrentNode: state.ID}
}

// GenerateMermaid produces Mermaid flowchart syntax from nodes in definition order.
// It applies semantic styling:
// - Root: ((Circle))
// - Ending: ([Stadium]) labelled with its tag
// - Dead branch leaf: [/Parallelogram/]
// - Default: [Rectangle]
// Edges are labelled with the choice label.
func GenerateMermaid(nodes []domain.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == domain.RootID:
			opener, closer = "((", "))"
		case node.HasEnding():
			opener, closer = "([", "])"
		case node.IsLeaf():
			opener, closer = "[/", "/]"
		}

		label := node.ID
		if node.HasEnding() {
			label = fmt.Sprintf("%s <br/> %s", node.ID, escape(node.Ending.Tag))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, c := range node.Choices {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escape(c.Label), sanitizeMermaidID(c.To))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] || id == overlay.CurrentNode {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
