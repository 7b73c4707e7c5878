package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/internal/config"
	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/internal/testutils"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/persistence"
)

const rainScenario = "../../pkg/scenario/testdata/rain.json"

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"ROUTES64_SCENARIO": rainScenario,
		"ROUTES64_SAVE_DIR": t.TempDir(),
	})
	require.NoError(t, err)
	return cfg
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}

func TestOpenSaves(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()

	t.Run("file", func(t *testing.T) {
		cfg := testConfig(t)
		saves := OpenSaves(ctx, cfg, logger)
		assert.True(t, saves.Enabled())
		assert.Equal(t, filepath.Join(cfg.SaveDir, "save.json"), saves.Location())
	})

	t.Run("none", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SaveBackend = config.BackendNone
		assert.False(t, OpenSaves(ctx, cfg, logger).Enabled())
	})

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SaveBackend = config.BackendMemory
		saves := OpenSaves(ctx, cfg, logger)
		require.True(t, saves.Enabled())
		require.NoError(t, saves.Save(ctx, domain.NewState()))
		assert.True(t, saves.HasSave(ctx))
	})

	t.Run("sqlite defaults to the save dir", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SaveBackend = config.BackendSQLite
		saves := OpenSaves(ctx, cfg, logger)
		t.Cleanup(func() { _ = saves.Close() })
		require.True(t, saves.Enabled())
		assert.FileExists(t, filepath.Join(cfg.SaveDir, "saves.db"))
	})

	t.Run("unreachable redis degrades to disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SaveBackend = config.BackendRedis
		cfg.RedisURL = "redis://127.0.0.1:1/0"
		assert.False(t, OpenSaves(ctx, cfg, logger).Enabled())
	})
}

func TestNewGame_CoinWithAllowDuplicates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scenario = testutils.WriteScenario(t, "coin.json", testutils.CoinScenario)
	cfg.AllowDuplicates = true
	game, err := NewGame(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Coin", game.Meta().Title)
}

func TestNewGame_InvalidScenario(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scenario = filepath.Join(t.TempDir(), "missing.json")
	_, err := NewGame(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestRunPlay_CompletesAndSaves(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := RunPlay(context.Background(), PlayOptions{
		Config:   cfg,
		Headless: true,
		Input:    strings.NewReader("n\n1\n1\nq\n"),
		Output:   &out,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "[ending: umbrella]")
	assert.FileExists(t, filepath.Join(cfg.SaveDir, "save.json"))
}

func TestRunPlay_FreshDeletesSave(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	saves, err := persistence.Open(persistence.WithDir(cfg.SaveDir))
	require.NoError(t, err)
	require.NoError(t, saves.Save(ctx, domain.NewState().Advance("R1")))

	var out bytes.Buffer
	err = RunPlay(ctx, PlayOptions{
		Config:   cfg,
		Headless: true,
		Fresh:    true,
		Input:    strings.NewReader("q\n"),
		Output:   &out,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "[c] Continue")
	assert.False(t, saves.HasSave(ctx))
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	err := Validate(context.Background(), rainScenario, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `Scenario "Rain Routes" is valid: 7 nodes, depth 2.`)
	assert.Contains(t, out.String(), "Endings: 4 of 4 canonical leaves.")
}

func TestValidate_ReportsErrors(t *testing.T) {
	path := testutils.WriteScenario(t, "broken.json", `{
		"meta": {"title": "Broken", "depth": 1},
		"nodes": [
			{"id": "R", "text": "start", "choices": [{"label": "a", "to": "R1"}, {"label": "b", "to": "R9"}]},
			{"id": "R1", "text": "end", "ending": {"tag": "one"}}
		]
	}`)

	var out bytes.Buffer
	err := Validate(context.Background(), path, nil, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "is invalid")
	assert.Contains(t, out.String(), "R9")
}

func TestWatchValidate_RevalidatesOnChange(t *testing.T) {
	path := testutils.CopyScenario(t, rainScenario)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- WatchValidate(ctx, path, nil, out, logging.NewNop()) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Waiting for changes")
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, raw, 0o644))
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Change detected")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestSaveCommands(t *testing.T) {
	ctx := context.Background()
	saves, err := persistence.Open(persistence.WithDir(t.TempDir()))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, InspectSave(ctx, saves, &out))
	assert.Contains(t, out.String(), "No save present.")

	require.NoError(t, saves.Save(ctx, domain.NewState().Advance("R1")))

	out.Reset()
	require.NoError(t, InspectSave(ctx, saves, &out))
	assert.Contains(t, out.String(), `"current": "R1"`)
	assert.Contains(t, out.String(), `"schema_version": 1`)

	out.Reset()
	require.NoError(t, DeleteSave(ctx, saves, &out))
	assert.Contains(t, out.String(), "Deleted save")
	assert.False(t, saves.HasSave(ctx))

	out.Reset()
	require.NoError(t, DeleteSave(ctx, saves, &out))
	assert.Contains(t, out.String(), "No save present.")
}

func TestNewServeHandler(t *testing.T) {
	cfg := testConfig(t)
	game, err := NewGame(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	game.Session().Boot(context.Background())

	handler, release := NewServeHandler(game, logging.NewNop())
	defer release()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/intents/begin", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "routes64_sessions_started_total 1")
}

func TestInterruptibleReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewInterruptibleReader(ctx, pr)
	done := make(chan error, 1)
	go func() {
		_, err := r.Read(make([]byte, 8))
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.True(t, IsInterrupted(err))
	case <-time.After(time.Second):
		t.Fatal("read did not return after cancel")
	}
}

func TestInterruptibleReader_PassesData(t *testing.T) {
	r := NewInterruptibleReader(context.Background(), strings.NewReader("n\n"))
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "n\n", string(data))
}

func TestStopReason(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled.Error(), stopReason(ctx))

	sc := NewSignalContext(context.Background())
	sc.Cancel()
	assert.Nil(t, sc.Signal())
	assert.Equal(t, context.Canceled.Error(), stopReason(sc))

	inner, cancelCause := context.WithCancelCause(context.Background())
	signalled := &SignalContext{Context: inner, cancel: cancelCause}
	cancelCause(&SignalError{Signal: syscall.SIGTERM})
	assert.Equal(t, syscall.SIGTERM, signalled.Signal())
	assert.Equal(t, syscall.SIGTERM.String(), stopReason(signalled))
}
