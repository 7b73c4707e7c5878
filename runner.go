package routes64

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/routes64/pkg/domain"
)

// Runner plays a Game over line-based IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms node text before it is written.
// This allows for terminal rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner over in and out.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run boots the session and processes one intent per input line until the input ends,
// the player quits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, game *Game) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	ctrl := game.Session()

	snap := ctrl.Boot(ctx)
	if snap.Phase == domain.PhaseBoot {
		return fmt.Errorf("game is not ready: waiting for %s", strings.Join(game.Readiness().Pending(), ", "))
	}

	render := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if render {
			r.render(game.Meta(), snap)
		}

		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || text == "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.ToLower(strings.TrimSpace(text))
		if input == "q" || input == "quit" || input == "exit" {
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		}

		intent, ok := ParseInput(snap, input)
		if !ok {
			fmt.Fprintln(r.Output, "?")
			render = false
			continue
		}
		snap = ctrl.Dispatch(ctx, intent)
		render = true
	}
}

// ParseInput maps a line typed on the screen described by snap to an intent.
// Choices are numbered from 1.
func ParseInput(snap domain.Snapshot, input string) (domain.Intent, bool) {
	switch snap.Phase {
	case domain.PhaseTitle:
		switch input {
		case "n", "new":
			return domain.BeginNew(), true
		case "c", "continue":
			return domain.Continue(), true
		}
	case domain.PhasePlaying:
		if n, err := strconv.Atoi(input); err == nil {
			return domain.Choose(n - 1), true
		}
		if input == "r" || input == "restart" {
			return domain.Restart(), true
		}
	case domain.PhaseEnding:
		switch input {
		case "", "r", "restart":
			return domain.Restart(), true
		}
	}
	return domain.Intent{}, false
}

func (r *Runner) render(meta domain.Meta, snap domain.Snapshot) {
	w := r.Output

	if snap.Notice != "" {
		fmt.Fprintf(w, "(%s)\n", snap.Notice)
	}

	switch snap.Phase {
	case domain.PhaseTitle:
		fmt.Fprintf(w, "== %s ==\n", meta.Title)
		fmt.Fprintln(w, "[n] New game")
		if snap.HasSave {
			fmt.Fprintln(w, "[c] Continue")
		}
		fmt.Fprintln(w, "[q] Quit")
		return
	case domain.PhaseBoot:
		return
	}

	if snap.View == nil {
		return
	}
	fmt.Fprintln(w, strings.TrimSpace(r.content(snap.View.Text)))

	if snap.Phase == domain.PhaseEnding {
		if snap.View.EndingTag != "" {
			fmt.Fprintf(w, "[ending: %s]\n", snap.View.EndingTag)
		}
		fmt.Fprintln(w, "[r] Back to title")
		return
	}

	if len(snap.View.Choices) == 0 {
		fmt.Fprintln(w, "[r] Back to title")
		return
	}
	for i, label := range snap.View.Choices {
		fmt.Fprintf(w, "%d) %s\n", i+1, label)
	}
}

func (r *Runner) content(text string) string {
	if r.Renderer == nil {
		return text
	}
	rendered, err := r.Renderer(text)
	if err != nil {
		return text
	}
	return rendered
}
