package routes64

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/internal/runtime"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/persistence"
	"github.com/aretw0/routes64/pkg/scenario"
	"github.com/aretw0/routes64/pkg/session"
)

// Game wires a loaded scenario, the engine, persistence and the session controller.
type Game struct {
	nodes     *scenario.Store
	engine    *runtime.Engine
	saves     *persistence.Store
	session   *session.Controller
	readiness *session.Readiness
	logger    *slog.Logger
}

type options struct {
	logger       *slog.Logger
	saves        *persistence.Store
	readiness    *session.Readiness
	scenarioOpts []scenario.Option
}

// Option defines a functional option for configuring the Game.
type Option func(*options)

// WithLogger sets a custom structured logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPersistence sets the save store. Without it the game runs with persistence disabled.
func WithPersistence(saves *persistence.Store) Option {
	return func(o *options) {
		o.saves = saves
	}
}

// WithReadiness lets the host gate the Boot phase on its own flags.
// The scenario flag is marked by the Game; the host marks the rest.
func WithReadiness(r *session.Readiness) Option {
	return func(o *options) {
		o.readiness = r
	}
}

// WithScenarioOptions forwards options to the scenario loader.
func WithScenarioOptions(opts ...scenario.Option) Option {
	return func(o *options) {
		o.scenarioOpts = append(o.scenarioOpts, opts...)
	}
}

// New loads the scenario at path and builds a Game around it.
// An invalid scenario is fatal and returns a *scenario.LoadError.
func New(path string, opts ...Option) (*Game, error) {
	o := resolve(opts)

	loadOpts := append([]scenario.Option{scenario.WithLogger(o.logger)}, o.scenarioOpts...)
	nodes, err := scenario.LoadFile(path, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", path, err)
	}
	return assemble(nodes, o), nil
}

// NewFromStore builds a Game around an already loaded scenario.
func NewFromStore(nodes *scenario.Store, opts ...Option) *Game {
	return assemble(nodes, resolve(opts))
}

func resolve(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.saves == nil {
		o.saves = persistence.Disabled()
	}
	if o.readiness == nil {
		o.readiness = session.NewReadiness(session.ReadyScenario)
	}
	return o
}

func assemble(nodes *scenario.Store, o *options) *Game {
	logger := o.logger.With("scenario", nodes.Meta().Title)
	engine := runtime.NewEngine(nodes, runtime.WithLogger(logger))
	o.readiness.MarkReady(session.ReadyScenario)

	return &Game{
		nodes:     nodes,
		engine:    engine,
		saves:     o.saves,
		readiness: o.readiness,
		logger:    logger,
		session: session.NewController(engine, o.saves,
			session.WithLogger(logger),
			session.WithReadiness(o.readiness),
		),
	}
}

// Meta returns the scenario metadata.
func (g *Game) Meta() domain.Meta {
	return g.nodes.Meta()
}

// Nodes returns the node store.
func (g *Game) Nodes() *scenario.Store {
	return g.nodes
}

// Engine returns the scenario engine.
func (g *Game) Engine() *runtime.Engine {
	return g.engine
}

// Saves returns the persistence store.
func (g *Game) Saves() *persistence.Store {
	return g.saves
}

// Session returns the session controller.
func (g *Game) Session() *session.Controller {
	return g.session
}

// Readiness returns the boot readiness flags.
func (g *Game) Readiness() *session.Readiness {
	return g.readiness
}

// Close releases the persistence backend.
func (g *Game) Close() error {
	return g.saves.Close()
}
