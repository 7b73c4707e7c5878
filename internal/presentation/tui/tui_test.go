package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/internal/presentation/tui"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "Rain Routes", "0.1.0\n")

	out := buf.String()
	assert.Contains(t, out, "Rain Routes")
	assert.Contains(t, out, "v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer(60)
	out, err := render("Rain. **Only** the sound of it.")
	require.NoError(t, err)
	assert.Contains(t, out, "Only")
	assert.Contains(t, out, "sound of it")
}
