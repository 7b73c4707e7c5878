package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/internal/runtime"
	"github.com/aretw0/routes64/pkg/domain"
)

// Persistence is the subset of persistence.Store the controller uses.
type Persistence interface {
	Save(ctx context.Context, state domain.State) error
	Load(ctx context.Context) (*domain.State, error)
	HasSave(ctx context.Context) bool
}

// Notices carried by snapshots after a non-fatal problem.
const (
	NoticeSaveUnavailable = "saved game could not be loaded"
	NoticeChoiceRejected  = "that choice is not available"
)

// Controller drives a single play session. Safe for concurrent use; intents are serialized.
type Controller struct {
	engine    *runtime.Engine
	saves     Persistence
	readiness *Readiness
	logger    *slog.Logger

	mu     sync.Mutex
	phase  domain.Phase
	state  *domain.State
	notice string
	queue  []domain.Intent

	subMu       sync.RWMutex
	nextSub     uint64
	subscribers []subscriber
}

type subscriber struct {
	id uint64
	fn func(domain.Snapshot)
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReadiness gates the Boot to Title transition on r.
func WithReadiness(r *Readiness) Option {
	return func(c *Controller) {
		c.readiness = r
	}
}

// NewController creates a controller in the Boot phase.
func NewController(engine *runtime.Engine, saves Persistence, opts ...Option) *Controller {
	c := &Controller{
		engine:    engine,
		saves:     saves,
		readiness: NewReadiness(),
		logger:    logging.NewNop(),
		phase:     domain.PhaseBoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive every published snapshot.
// fn runs on the goroutine that processed the intent, after the controller lock is released.
// The returned function removes the subscription; calling it more than once is harmless.
func (c *Controller) Subscribe(fn func(domain.Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		c.subscribers = slices.DeleteFunc(c.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() domain.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns the current snapshot without processing anything.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(context.Background())
}

// Boot leaves the Boot phase if readiness allows it, and returns the resulting snapshot.
func (c *Controller) Boot(ctx context.Context) domain.Snapshot {
	c.mu.Lock()
	booted := c.boot()
	snap := c.snapshot(ctx)
	c.mu.Unlock()

	if booted {
		c.publish(snap)
	}
	return snap
}

// Dispatch processes intent immediately.
func (c *Controller) Dispatch(ctx context.Context, intent domain.Intent) domain.Snapshot {
	c.mu.Lock()
	c.boot()
	c.apply(ctx, intent)
	snap := c.snapshot(ctx)
	c.mu.Unlock()

	c.publish(snap)
	return snap
}

// Enqueue queues intent for the next Tick.
func (c *Controller) Enqueue(intent domain.Intent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, intent)
}

// Tick drains the queue. Begin and continue run first, then choices in arrival order,
// then restart. A snapshot is published per processed intent; the last one is returned.
func (c *Controller) Tick(ctx context.Context) domain.Snapshot {
	c.mu.Lock()
	booted := c.boot()
	batch := c.queue
	c.queue = nil
	slices.SortStableFunc(batch, func(a, b domain.Intent) int {
		return priority(a.Kind) - priority(b.Kind)
	})

	snaps := make([]domain.Snapshot, 0, len(batch)+1)
	if booted {
		snaps = append(snaps, c.snapshot(ctx))
	}
	for _, intent := range batch {
		c.apply(ctx, intent)
		snaps = append(snaps, c.snapshot(ctx))
	}
	last := c.snapshot(ctx)
	c.mu.Unlock()

	for _, snap := range snaps {
		c.publish(snap)
	}
	return last
}

func priority(kind domain.IntentKind) int {
	switch kind {
	case domain.IntentBeginNew, domain.IntentContinue:
		return 0
	case domain.IntentChoice:
		return 1
	case domain.IntentRestart:
		return 2
	default:
		return 3
	}
}

// boot must be called with mu held.
func (c *Controller) boot() bool {
	if c.phase != domain.PhaseBoot {
		return false
	}
	if pending := c.readiness.Pending(); len(pending) > 0 {
		c.logger.Debug("boot waiting", "pending", pending)
		return false
	}
	c.phase = domain.PhaseTitle
	c.logger.Info("boot complete", "phase", c.phase)
	return true
}

// apply must be called with mu held.
func (c *Controller) apply(ctx context.Context, intent domain.Intent) {
	c.notice = ""

	switch {
	case intent.Kind == domain.IntentBeginNew && c.phase == domain.PhaseTitle:
		state := domain.NewState()
		c.enter(state)
		c.logger.Info("new game", "phase", c.phase)

	case intent.Kind == domain.IntentContinue && c.phase == domain.PhaseTitle:
		c.resume(ctx)

	case intent.Kind == domain.IntentChoice && c.phase == domain.PhasePlaying:
		next, err := c.engine.Transition(*c.state, intent.Index)
		if err != nil {
			c.logger.Warn("choice rejected", "node_id", c.state.ID, "choice", intent.Index, "err", err)
			c.notice = NoticeChoiceRejected
			return
		}
		c.enter(next)
		c.autosave(ctx)

	case intent.Kind == domain.IntentRestart && (c.phase == domain.PhaseEnding || c.deadBranch()):
		c.state = nil
		c.phase = domain.PhaseTitle
		c.logger.Info("restart", "phase", c.phase)

	default:
		c.logger.Debug("intent ignored", "intent", intent.Kind, "phase", c.phase)
	}
}

func (c *Controller) resume(ctx context.Context) {
	if !c.saves.HasSave(ctx) {
		c.logger.Debug("continue ignored, no save", "phase", c.phase)
		return
	}

	state, err := c.saves.Load(ctx)
	if err != nil {
		c.logger.Warn("continue failed, staying on title", "err", err)
		c.notice = NoticeSaveUnavailable
		return
	}
	if state == nil {
		c.logger.Info("continue found no usable save, staying on title")
		c.notice = NoticeSaveUnavailable
		return
	}

	if _, ok := c.engine.Store().Get(state.ID); !ok {
		c.logger.Warn("continue found a save for an unknown node, staying on title", "node_id", state.ID)
		c.notice = NoticeSaveUnavailable
		return
	}

	c.enter(*state)
	c.logger.Info("game resumed", "node_id", state.ID, "depth", state.Depth, "phase", c.phase)
}

// deadBranch reports a Playing state on a node with nothing left to choose.
func (c *Controller) deadBranch() bool {
	if c.phase != domain.PhasePlaying || c.state == nil {
		return false
	}
	node, ok := c.engine.Store().Get(c.state.ID)
	return !ok || node.IsLeaf()
}

// enter installs state and picks Playing or Ending.
func (c *Controller) enter(state domain.State) {
	c.state = &state
	if c.engine.IsEnding(state) {
		c.phase = domain.PhaseEnding
	} else {
		c.phase = domain.PhasePlaying
	}
}

// autosave persists the current state once a choice has been made. Failures are logged only.
func (c *Controller) autosave(ctx context.Context) {
	if c.state == nil || c.state.Depth == 0 {
		return
	}
	if err := c.saves.Save(ctx, *c.state); err != nil {
		c.logger.Error("auto-save failed", "node_id", c.state.ID, "err", err)
	}
}

func (c *Controller) snapshot(ctx context.Context) domain.Snapshot {
	snap := domain.Snapshot{
		Phase:   c.phase,
		HasSave: c.saves.HasSave(ctx),
		Notice:  c.notice,
	}
	if c.state != nil {
		state := c.state.Clone()
		view := c.engine.View(state)
		snap.State = &state
		snap.View = &view
		snap.IsEnding = view.IsEnding
	}
	return snap
}

func (c *Controller) publish(snap domain.Snapshot) {
	c.subMu.RLock()
	subs := slices.Clone(c.subscribers)
	c.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}
