// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CoinScenario is a depth-1 scenario with two tagged endings.
const CoinScenario = `{
  "meta": {"title": "Coin", "depth": 1},
  "nodes": [
    {"id": "R", "text": "Heads or tails?",
     "choices": [{"label": "Heads", "to": "R1"}, {"label": "Tails", "to": "R0"}]},
    {"id": "R1", "text": "Heads it is.", "ending": {"tag": "heads"}},
    {"id": "R0", "text": "Tails it is.", "ending": {"tag": "tails"}}
  ]
}`

// WriteScenario writes content to name inside a fresh temp dir and returns its path.
// It fails the test immediately on error.
func WriteScenario(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write scenario")
	return path
}

// CopyScenario copies the file at src into a fresh temp dir and returns the new path.
func CopyScenario(t *testing.T, src string) string {
	t.Helper()

	raw, err := os.ReadFile(src)
	require.NoError(t, err, "Failed to read scenario fixture")
	return WriteScenario(t, filepath.Base(src), string(raw))
}
