package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/pkg/domain"
)

// ScenarioURI is the resource exposing the loaded scenario.
const ScenarioURI = "routes64://scenario"

// SnapshotResponse provides a unified structure across adapters.
type SnapshotResponse struct {
	Phase    domain.Phase     `json:"phase" jsonschema_description:"Current session phase: boot, title, playing or ending"`
	State    *domain.State    `json:"state,omitempty" jsonschema_description:"Traversal state of the active session"`
	View     *domain.NodeView `json:"view,omitempty" jsonschema_description:"Node content to present, with choice labels in order"`
	IsEnding bool             `json:"is_ending" jsonschema_description:"Indicates if the session reached an ending"`
	HasSave  bool             `json:"has_save" jsonschema_description:"Indicates if continue is available from the title"`
	Notice   string           `json:"notice,omitempty" jsonschema_description:"Non-fatal message about the last intent"`
}

// ChooseArgs are the arguments of the choose tool.
type ChooseArgs struct {
	Index int `json:"index"`
}

// Session is the part of session.Controller the server drives.
type Session interface {
	Dispatch(ctx context.Context, intent domain.Intent) domain.Snapshot
	Snapshot() domain.Snapshot
}

// Scenario describes the loaded scenario for the resource.
type Scenario interface {
	Meta() domain.Meta
	Nodes() []domain.Node
}

// Server exposes a play session as an MCP Server.
type Server struct {
	session   Session
	scenario  Scenario
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(session Session, scenario Scenario, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		session:  session,
		scenario: scenario,
		logger:   logger,
		mcpServer: server.NewMCPServer("routes64-mcp", strings.TrimSpace(version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("view",
		mcp.WithDescription("Show the current screen: phase, node text, choices and whether a save exists."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("begin_new",
		mcp.WithDescription("Start a new game from the title screen."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.intent(domain.BeginNew())))

	s.mcpServer.AddTool(mcp.NewTool("continue",
		mcp.WithDescription("Resume the saved game from the title screen."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.intent(domain.Continue())))

	s.mcpServer.AddTool(mcp.NewTool("choose",
		mcp.WithDescription("Take one of the choices of the current node."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based index of the choice")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleChoose))

	s.mcpServer.AddTool(mcp.NewTool("restart",
		mcp.WithDescription("Return to the title screen after an ending."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.intent(domain.Restart())))
}

func (s *Server) handleView(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SnapshotResponse, error) {
	return toResponse(s.session.Snapshot()), nil
}

func (s *Server) intent(intent domain.Intent) func(context.Context, mcp.CallToolRequest, map[string]any) (SnapshotResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SnapshotResponse, error) {
		snap := s.session.Dispatch(ctx, intent)
		s.logger.Debug("MCP intent", "intent", intent.Kind, "phase", snap.Phase)
		return toResponse(snap), nil
	}
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args ChooseArgs) (SnapshotResponse, error) {
	snap := s.session.Dispatch(ctx, domain.Choose(args.Index))
	s.logger.Debug("MCP choose", "choice", args.Index, "phase", snap.Phase)
	return toResponse(snap), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ScenarioURI, "Loaded Scenario",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.scenarioJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ScenarioURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) scenarioJSON() ([]byte, error) {
	doc := struct {
		Meta  domain.Meta   `json:"meta"`
		Nodes []domain.Node `json:"nodes"`
	}{s.scenario.Meta(), s.scenario.Nodes()}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scenario: %w", err)
	}
	return data, nil
}

func toResponse(snap domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Phase:    snap.Phase,
		State:    snap.State,
		View:     snap.View,
		IsEnding: snap.IsEnding,
		HasSave:  snap.HasSave,
		Notice:   snap.Notice,
	}
}
