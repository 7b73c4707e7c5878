package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the title banner, the scenario title and the version to w.
func PrintBanner(w io.Writer, title, version string) {
	out := termenv.NewOutput(w)
	lines := []string{
		`  ___         _            __ _ _  `,
		` | _ \___ _  _| |_ ___ ___ / /| | | `,
		` |   / _ \ || |  _/ -_|_-</ _ \_  _|`,
		` |_|_\___/\_,_|\__\___/__/\___/ |_| `,
	}
	// Rain palette: slate to sky.
	colors := []string{"#64748b", "#60a5fa", "#38bdf8", "#7dd3fc"}

	fmt.Fprintln(w)
	for i, line := range lines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(colors[i])))
	}
	fmt.Fprintln(w)
	if title != "" {
		fmt.Fprintln(w, out.String("  "+title).Bold())
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
