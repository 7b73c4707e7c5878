package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/routes64"
	"github.com/aretw0/routes64/internal/config"
	"github.com/aretw0/routes64/internal/presentation/tui"
)

// PlayOptions configures the play command.
type PlayOptions struct {
	Config   config.Config
	Headless bool
	Fresh    bool
	Input    io.Reader
	Output   io.Writer
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// RunPlay runs an interactive session until the player quits or ctx is cancelled.
// Interactive terminals get the banner and markdown rendering; pipes get plain text.
func RunPlay(ctx context.Context, opts PlayOptions, logger *slog.Logger) error {
	game, err := NewGame(ctx, opts.Config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := game.Close(); err != nil {
			logger.Warn("failed to close persistence", "err", err)
		}
	}()

	if opts.Fresh {
		if err := game.Saves().Delete(ctx); err != nil {
			logger.Warn("failed to delete save", "err", err)
		}
	}

	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	r := routes64.NewRunner(NewInterruptibleReader(ctx, in), out)
	r.Headless = opts.Headless

	if f, ok := out.(*os.File); ok && !opts.Headless && IsInteractive(f) {
		tui.PrintBanner(out, game.Meta().Title, routes64.Version)
		r.Renderer = tui.NewRenderer(80)
	}

	if err := r.Run(ctx, game); err != nil {
		if !IsInterrupted(err) {
			return err
		}
		logger.Debug("play interrupted", "reason", stopReason(ctx))
	}
	return nil
}
