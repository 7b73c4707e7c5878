package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/routes64"
	"github.com/aretw0/routes64/internal/metrics"
	httpadapter "github.com/aretw0/routes64/pkg/adapters/http"
)

// NewServeHandler wires the HTTP adapter, the graph endpoint and metrics for game.
// release drops both session subscriptions.
func NewServeHandler(game *routes64.Game, logger *slog.Logger) (handler http.Handler, release func()) {
	rec := metrics.NewRecorder()
	stopMetrics := game.Session().Subscribe(rec.Observe)

	srv := httpadapter.NewHandler(game.Session(),
		httpadapter.WithLogger(logger),
		httpadapter.WithNodes(game.Nodes().Nodes),
		httpadapter.WithMetrics(rec.Handler()),
	)
	return srv, func() {
		srv.Close()
		stopMetrics()
	}
}

// Serve runs the HTTP server on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, game *routes64.Game, logger *slog.Logger) error {
	game.Session().Boot(ctx)

	handler, release := NewServeHandler(game, logger)
	defer release()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", addr, "scenario", game.Meta().Title)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Info("shutting down HTTP server", "reason", stopReason(ctx))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		return nil
	}
}

// stopReason describes why ctx ended, naming the signal when there was one.
func stopReason(ctx context.Context) string {
	if sc, ok := ctx.(*SignalContext); ok {
		if sig := sc.Signal(); sig != nil {
			return sig.String()
		}
	}
	if cause := context.Cause(ctx); cause != nil {
		return cause.Error()
	}
	return "input closed"
}
