package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/internal/runtime"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/persistence"
	"github.com/aretw0/routes64/pkg/scenario"
	"github.com/aretw0/routes64/pkg/session"
)

const coin = `{
  "meta": {"title": "Coin", "depth": 1},
  "nodes": [
    {"id": "R", "text": "Heads or tails?",
     "choices": [{"label": "Heads", "to": "R1"}, {"label": "Tails", "to": "R0"}]},
    {"id": "R1", "text": "Heads.", "ending": {"tag": "heads"}},
    {"id": "R0", "text": "Tails.", "ending": {"tag": "tails"}}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	nodes, err := scenario.Load([]byte(coin))
	require.NoError(t, err)
	ctrl := session.NewController(runtime.NewEngine(nodes), persistence.Disabled())
	return NewServer(ctrl, nodes, "0.1.0", nil)
}

func TestServer_PlayThroughTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleView(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTitle, resp.Phase)

	resp, err = s.intent(domain.BeginNew())(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlaying, resp.Phase)
	assert.Equal(t, []string{"Heads", "Tails"}, resp.View.Choices)

	resp, err = s.handleChoose(ctx, mcp.CallToolRequest{}, ChooseArgs{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseEnding, resp.Phase)
	assert.True(t, resp.IsEnding)
	assert.Equal(t, "heads", resp.View.EndingTag)
	assert.False(t, resp.HasSave, "persistence is disabled")

	resp, err = s.intent(domain.Restart())(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTitle, resp.Phase)
}

func TestServer_ChooseRejected(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _ = s.intent(domain.BeginNew())(ctx, mcp.CallToolRequest{}, nil)
	resp, err := s.handleChoose(ctx, mcp.CallToolRequest{}, ChooseArgs{Index: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlaying, resp.Phase)
	assert.Equal(t, "R", resp.State.ID)
	assert.Equal(t, session.NoticeChoiceRejected, resp.Notice)
}

func TestServer_ScenarioResource(t *testing.T) {
	s := newTestServer(t)

	data, err := s.scenarioJSON()
	require.NoError(t, err)

	var doc struct {
		Meta  domain.Meta   `json:"meta"`
		Nodes []domain.Node `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Coin", doc.Meta.Title)
	assert.Len(t, doc.Nodes, 3)
	assert.Equal(t, "R", doc.Nodes[0].ID)
	assert.NotNil(t, s.MCPServer())
}
