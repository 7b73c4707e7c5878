package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/internal/runtime"
	"github.com/aretw0/routes64/pkg/adapters/memory"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/persistence"
	"github.com/aretw0/routes64/pkg/scenario"
	"github.com/aretw0/routes64/pkg/session"
)

const depthTwo = `{
  "meta": {"title": "T", "depth": 2, "default_background": "images/default.png"},
  "nodes": [
    {"id": "R", "text": "root",
     "choices": [{"label": "Go out", "to": "R1"}, {"label": "Stay in", "to": "R0"}]},
    {"id": "R1", "text": "out",
     "choices": [{"label": "Umbrella", "to": "R11"}, {"label": "Run", "to": "R10"}]},
    {"id": "R0", "text": "in",
     "choices": [{"label": "Read", "to": "R01"}, {"label": "Sleep", "to": "R00"}]},
    {"id": "R11", "text": "umbrella", "ending": {"tag": "umbrella"}},
    {"id": "R10", "text": "run"},
    {"id": "R01", "text": "read", "ending": {"tag": "read"}},
    {"id": "R00", "text": "sleep", "ending": {"tag": "sleep"}}
  ]
}`

// recorder collects published snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
}

func (r *recorder) record(s domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Snapshot(nil), r.snaps...)
}

// countingSaves wraps a persistence store and counts saves.
type countingSaves struct {
	session.Persistence
	saves []domain.State
	fail  error
}

func (c *countingSaves) Save(ctx context.Context, state domain.State) error {
	c.saves = append(c.saves, state)
	if c.fail != nil {
		return c.fail
	}
	return c.Persistence.Save(ctx, state)
}

type fixture struct {
	ctrl    *session.Controller
	backend *memory.Store
	saves   *countingSaves
	rec     *recorder
}

func newFixture(t *testing.T, opts ...session.Option) *fixture {
	t.Helper()
	nodes, err := scenario.Load([]byte(depthTwo))
	require.NoError(t, err)

	backend := memory.NewStore()
	store, err := persistence.Open(persistence.WithBackend(backend))
	require.NoError(t, err)

	saves := &countingSaves{Persistence: store}
	ctrl := session.NewController(runtime.NewEngine(nodes), saves, opts...)
	rec := &recorder{}
	ctrl.Subscribe(rec.record)
	return &fixture{ctrl: ctrl, backend: backend, saves: saves, rec: rec}
}

func TestController_BootsWhenReady(t *testing.T) {
	ready := session.NewReadiness(session.ReadyScenario, session.ReadyFont)
	f := newFixture(t, session.WithReadiness(ready))
	ctx := context.Background()

	assert.Equal(t, domain.PhaseBoot, f.ctrl.Boot(ctx).Phase)

	ready.MarkReady(session.ReadyScenario)
	snap := f.ctrl.Dispatch(ctx, domain.BeginNew())
	assert.Equal(t, domain.PhaseBoot, snap.Phase, "intents are ignored until boot completes")
	assert.Equal(t, []string{session.ReadyFont}, ready.Pending())

	ready.MarkReady(session.ReadyFont)
	assert.True(t, ready.Ready())
	assert.Equal(t, domain.PhaseTitle, f.ctrl.Boot(ctx).Phase)
	assert.Equal(t, domain.PhaseTitle, f.ctrl.Phase())
}

func TestController_BeginNewAndPlayToEnding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap := f.ctrl.Dispatch(ctx, domain.BeginNew())
	require.Equal(t, domain.PhasePlaying, snap.Phase)
	require.NotNil(t, snap.State)
	assert.Equal(t, "R", snap.State.ID)
	assert.Equal(t, []string{"Go out", "Stay in"}, snap.View.Choices)
	assert.Empty(t, f.saves.saves, "the root state is never persisted")
	assert.False(t, snap.HasSave)

	snap = f.ctrl.Dispatch(ctx, domain.Choose(0))
	assert.Equal(t, domain.PhasePlaying, snap.Phase)
	assert.Equal(t, domain.State{ID: "R1", Depth: 1, Trail: []string{"R", "R1"}}, *snap.State)
	assert.True(t, snap.HasSave)
	require.Len(t, f.saves.saves, 1)

	snap = f.ctrl.Dispatch(ctx, domain.Choose(0))
	assert.Equal(t, domain.PhaseEnding, snap.Phase)
	assert.True(t, snap.IsEnding)
	assert.Equal(t, "umbrella", snap.View.EndingTag)
	assert.Len(t, f.saves.saves, 2)

	record, err := f.backend.Load(ctx, persistence.DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, "R11", record.Current)
}

func TestController_RejectedChoiceKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	snap := f.ctrl.Dispatch(ctx, domain.Choose(5))

	assert.Equal(t, domain.PhasePlaying, snap.Phase)
	assert.Equal(t, "R", snap.State.ID)
	assert.Equal(t, session.NoticeChoiceRejected, snap.Notice)
	assert.Empty(t, f.saves.saves)

	snap = f.ctrl.Dispatch(ctx, domain.Choose(1))
	assert.Empty(t, snap.Notice, "notices last for one intent")
	assert.Equal(t, "R0", snap.State.ID)
}

func TestController_DeadBranchIsNotAnEnding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	f.ctrl.Dispatch(ctx, domain.Choose(0))
	snap := f.ctrl.Dispatch(ctx, domain.Choose(1))

	assert.Equal(t, domain.PhasePlaying, snap.Phase)
	assert.False(t, snap.IsEnding)
	assert.Empty(t, snap.View.Choices)

	snap = f.ctrl.Dispatch(ctx, domain.Restart())
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
}

func TestController_RestartKeepsSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	f.ctrl.Dispatch(ctx, domain.Choose(1))
	f.ctrl.Dispatch(ctx, domain.Choose(0))
	saved := len(f.saves.saves)

	snap := f.ctrl.Dispatch(ctx, domain.Restart())
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
	assert.Nil(t, snap.State)
	assert.Nil(t, snap.View)
	assert.True(t, snap.HasSave)
	assert.Len(t, f.saves.saves, saved, "restart does not persist")

	snap = f.ctrl.Dispatch(ctx, domain.Continue())
	assert.Equal(t, domain.PhaseEnding, snap.Phase, "a finished save resumes on its ending")
	assert.Equal(t, "R01", snap.State.ID)
}

func TestController_Continue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	state := domain.NewState().Advance("R0")
	require.NoError(t, f.backend.Save(ctx, persistence.DefaultSlot, domain.RecordFromState(state)))

	snap := f.ctrl.Dispatch(ctx, domain.Continue())
	assert.Equal(t, domain.PhasePlaying, snap.Phase)
	assert.True(t, state.Equal(*snap.State))
	assert.Empty(t, f.saves.saves)
}

func TestController_ContinueWithoutSaveIsIgnored(t *testing.T) {
	f := newFixture(t)

	snap := f.ctrl.Dispatch(context.Background(), domain.Continue())
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
	assert.Empty(t, snap.Notice)
}

func TestController_ContinueWithUnusableSaveStaysOnTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.backend.Save(ctx, persistence.DefaultSlot, domain.SaveRecord{SchemaVersion: 255, Current: "R1"}))

	snap := f.ctrl.Dispatch(ctx, domain.Continue())
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
	assert.Nil(t, snap.State)
	assert.Equal(t, session.NoticeSaveUnavailable, snap.Notice)
}

func TestController_ContinueWithSaveForUnknownNodeStaysOnTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := domain.SaveRecord{
		SchemaVersion: domain.CurrentSchemaVersion,
		Current:       "R1011",
		Depth:         4,
		Trail:         []string{"R", "R1", "R10", "R101", "R1011"},
	}
	require.NoError(t, f.backend.Save(ctx, persistence.DefaultSlot, stale))

	snap := f.ctrl.Dispatch(ctx, domain.Continue())
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
	assert.Nil(t, snap.State)
	assert.Equal(t, session.NoticeSaveUnavailable, snap.Notice)

	snap = f.ctrl.Dispatch(ctx, domain.BeginNew())
	assert.Equal(t, domain.PhasePlaying, snap.Phase, "a new game is still possible")
	assert.Equal(t, "R", snap.State.ID)
}

func TestController_UnsubscribeStopsDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var calls int
	unsubscribe := f.ctrl.Subscribe(func(domain.Snapshot) { calls++ })

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	f.ctrl.Dispatch(ctx, domain.Choose(0))
	assert.Equal(t, 1, calls)
	assert.Len(t, f.rec.all(), 2, "other subscribers keep receiving")
}

func TestController_AutoSaveFailureDoesNotBlockPlay(t *testing.T) {
	f := newFixture(t)
	f.saves.fail = errors.New("disk full")
	ctx := context.Background()

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	snap := f.ctrl.Dispatch(ctx, domain.Choose(0))

	assert.Equal(t, domain.PhasePlaying, snap.Phase)
	assert.Equal(t, "R1", snap.State.ID)
	assert.Len(t, f.saves.saves, 1)
}

func TestController_IntentsInvalidForPhaseAreIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, domain.PhaseTitle, f.ctrl.Dispatch(ctx, domain.Choose(0)).Phase)
	assert.Equal(t, domain.PhaseTitle, f.ctrl.Dispatch(ctx, domain.Restart()).Phase)

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	snap := f.ctrl.Dispatch(ctx, domain.BeginNew())
	assert.Equal(t, domain.PhasePlaying, snap.Phase)
}

func TestController_TickOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ctrl.Enqueue(domain.Restart())
	f.ctrl.Enqueue(domain.Choose(1))
	f.ctrl.Enqueue(domain.Choose(0))
	f.ctrl.Enqueue(domain.BeginNew())

	snap := f.ctrl.Tick(ctx)

	// begin, then R0, then R01 (ending), then restart back to title.
	assert.Equal(t, domain.PhaseTitle, snap.Phase)
	require.Len(t, f.saves.saves, 2)
	assert.Equal(t, "R0", f.saves.saves[0].ID)
	assert.Equal(t, "R01", f.saves.saves[1].ID)

	phases := []domain.Phase{}
	for _, s := range f.rec.all() {
		phases = append(phases, s.Phase)
	}
	assert.Equal(t, []domain.Phase{
		domain.PhaseTitle,
		domain.PhasePlaying,
		domain.PhasePlaying,
		domain.PhaseEnding,
		domain.PhaseTitle,
	}, phases)

	assert.Equal(t, domain.PhaseTitle, f.ctrl.Tick(ctx).Phase, "an empty tick changes nothing")
}

func TestController_SnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap := f.ctrl.Dispatch(ctx, domain.BeginNew())
	snap.State.Trail[0] = "mutated"

	assert.Equal(t, "R", f.ctrl.Snapshot().State.Trail[0])
}

func TestController_SubscriberMayReadSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var seen domain.Phase
	f.ctrl.Subscribe(func(domain.Snapshot) {
		seen = f.ctrl.Snapshot().Phase
	})

	f.ctrl.Dispatch(ctx, domain.BeginNew())
	assert.Equal(t, domain.PhasePlaying, seen)
}

func TestController_ConcurrentDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ctrl.Dispatch(ctx, domain.BeginNew())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ctrl.Snapshot()
		}()
	}
	f.ctrl.Dispatch(ctx, domain.Choose(0))
	wg.Wait()

	assert.Equal(t, "R1", f.ctrl.Snapshot().State.ID)
}
