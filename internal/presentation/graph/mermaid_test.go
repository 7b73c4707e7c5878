package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/routes64/internal/presentation/graph"
	"github.com/aretw0/routes64/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.Node
		contains []string
	}{
		{
			name:     "Root Node Shape",
			nodes:    []domain.Node{{ID: "R", Choices: []domain.Choice{{Label: "Go", To: "R1"}, {Label: "Stay", To: "R0"}}}},
			contains: []string{`R(("R"))`, `R -- "Go" --> R1`, `R -- "Stay" --> R0`},
		},
		{
			name:     "Ending Node Shape",
			nodes:    []domain.Node{{ID: "R1", Ending: &domain.Ending{Tag: "run"}}},
			contains: []string{`R1(["R1 <br/> run"])`},
		},
		{
			name:     "Dead Branch Shape",
			nodes:    []domain.Node{{ID: "R0"}},
			contains: []string{`R0[/"R0"/]`},
		},
		{
			name: "Inner Node Shape",
			nodes: []domain.Node{
				{ID: "R1", Choices: []domain.Choice{{Label: `Say "hi"`, To: "R11"}, {Label: "b", To: "R10"}}},
			},
			contains: []string{`R1["R1"]`, `R1 -- "Say 'hi'" --> R11`},
		},
		{
			name:     "ID Sanitization",
			nodes:    []domain.Node{{ID: "odd-id.v2"}},
			contains: []string{`odd_id_v2[/"odd-id.v2"/]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	nodes := []domain.Node{
		{ID: "R", Choices: []domain.Choice{{Label: "a", To: "R1"}, {Label: "b", To: "R0"}}},
		{ID: "R1", Ending: &domain.Ending{Tag: "one"}},
		{ID: "R0", Ending: &domain.Ending{Tag: "zero"}},
	}
	state := domain.NewState().Advance("R1")

	got := graph.GenerateMermaid(nodes, graph.OverlayFromState(state))

	assert.Contains(t, got, "class R visited;")
	assert.Contains(t, got, "class R1 current;")
	assert.NotContains(t, got, "class R1 visited;")
	assert.NotContains(t, got, "class R0")
}
