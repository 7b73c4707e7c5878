package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/internal/presentation/graph"
	"github.com/aretw0/routes64/pkg/domain"
)

// Session is the part of session.Controller the server drives.
type Session interface {
	Dispatch(ctx context.Context, intent domain.Intent) domain.Snapshot
	Snapshot() domain.Snapshot
	Subscribe(fn func(domain.Snapshot)) (unsubscribe func())
}

// Server exposes a Session over HTTP.
type Server struct {
	Session Session
	Streams *StreamManager

	nodes   func() []domain.Node
	metrics http.Handler
	logger  *slog.Logger

	router      http.Handler
	unsubscribe func()
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNodes enables GET /graph over the nodes returned by fn.
func WithNodes(fn func() []domain.Node) Option {
	return func(s *Server) {
		s.nodes = fn
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the session.
// It subscribes to the session until Close is called.
func NewHandler(session Session, opts ...Option) *Server {
	server := &Server{
		Session: session,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.unsubscribe = session.Subscribe(server.broadcast)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.GetHealth)
	r.Get("/state", server.GetState)
	r.Get("/events", server.SubscribeEvents)
	r.Route("/intents", func(r chi.Router) {
		r.Post("/begin", server.dispatch(domain.BeginNew()))
		r.Post("/continue", server.dispatch(domain.Continue()))
		r.Post("/restart", server.dispatch(domain.Restart()))
		r.Post("/choice/{index}", server.Choose)
	})
	if server.nodes != nil {
		r.Get("/graph", server.GetGraph)
	}
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	server.router = enableCORS(r)
	return server
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops forwarding session snapshots to event streams.
func (s *Server) Close() {
	s.unsubscribe()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Session.Snapshot())
}

func (s *Server) dispatch(intent domain.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.Session.Dispatch(r.Context(), intent)
		s.logger.Debug("intent dispatched", "intent", intent.Kind, "phase", snap.Phase)
		s.writeJSON(w, http.StatusOK, snap)
	}
}

// Choose handles POST /intents/choice/{index}. Index is zero-based.
// A choice the engine rejects still returns 200 with the unchanged snapshot and a notice.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Warn("invalid choice index", "choice", raw, "err", err)
		http.Error(w, fmt.Sprintf("invalid choice index %q", raw), http.StatusBadRequest)
		return
	}
	s.dispatch(domain.Choose(index))(w, r)
}

// GetGraph handles GET /graph, returning Mermaid text.
// With ?overlay=true the current trail is highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if r.URL.Query().Get("overlay") == "true" {
		if snap := s.Session.Snapshot(); snap.State != nil {
			overlay = graph.OverlayFromState(*snap.State)
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.nodes(), overlay)))
}

func (s *Server) broadcast(snap domain.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("snapshot encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(string(data))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
