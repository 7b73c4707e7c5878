package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/routes64/internal/logging"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/ports"
)

// DuplicatePolicy decides what happens when two nodes share an identifier.
type DuplicatePolicy int

const (
	// RejectDuplicates fails the load.
	RejectDuplicates DuplicatePolicy = iota
	// LastWins keeps the later definition, overwriting earlier ones.
	LastWins
)

// Store is the validated id → node mapping of a scenario.
type Store struct {
	meta   domain.Meta
	nodes  map[string]domain.Node
	order  []string
	report Report
	logger *slog.Logger
}

// Option configures how a Store is built.
type Option func(*buildConfig)

type buildConfig struct {
	logger     *slog.Logger
	duplicates DuplicatePolicy
}

// WithLogger sets the logger used for load diagnostics and fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDuplicatePolicy overrides the default RejectDuplicates policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *buildConfig) {
		c.duplicates = p
	}
}

// Load parses and builds a Store from a raw definition.
func Load(raw []byte, opts ...Option) (*Store, error) {
	cfg := newBuildConfig(opts)

	doc, unused, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if len(unused) > 0 {
		cfg.logger.Debug("ignoring unknown scenario keys", "keys", unused)
	}
	return build(doc, cfg)
}

// LoadFile reads and loads the scenario at path.
func LoadFile(path string, opts ...Option) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return Load(raw, opts...)
}

// LoadSource reads and loads the scenario provided by src.
func LoadSource(ctx context.Context, src ports.ScenarioSource, opts ...Option) (*Store, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", src.Name(), err)
	}
	return Load(raw, opts...)
}

// Build validates an already decoded document.
func Build(doc *Document, opts ...Option) (*Store, error) {
	return build(doc, newBuildConfig(opts))
}

func newBuildConfig(opts []Option) *buildConfig {
	cfg := &buildConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func build(doc *Document, cfg *buildConfig) (*Store, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, newLoadError(fmt.Errorf("%w: scenario defines no nodes", domain.ErrInvalidScenario))
	}

	s := &Store{
		meta:   toMeta(doc.Meta),
		nodes:  make(map[string]domain.Node, len(doc.Nodes)),
		order:  make([]string, 0, len(doc.Nodes)),
		logger: cfg.logger,
	}

	var errs []error
	for _, nd := range doc.Nodes {
		node := toNode(nd)
		if n := len(node.Choices); n != 0 && n != 2 {
			errs = append(errs, fmt.Errorf("%w: node %q has %d", domain.ErrInvalidChoiceCount, node.ID, n))
		}
		if _, exists := s.nodes[node.ID]; exists {
			if cfg.duplicates == RejectDuplicates {
				errs = append(errs, fmt.Errorf("%w: %q", domain.ErrDuplicateNode, node.ID))
				continue
			}
			cfg.logger.Warn("duplicate node id, later definition wins", "node_id", node.ID)
		} else {
			s.order = append(s.order, node.ID)
		}
		s.nodes[node.ID] = node
	}
	if len(errs) > 0 {
		return nil, newLoadError(errs...)
	}

	if err := s.checkReferences(); err != nil {
		return nil, err
	}

	s.report = s.lint()
	s.report.Log(cfg.logger)

	return s, nil
}

func toMeta(m MetaDoc) domain.Meta {
	meta := domain.Meta{
		Title:             m.Title,
		DefaultBackground: m.DefaultBackground,
		Font:              m.Font,
		RainBGM:           m.RainBGM,
	}
	if m.Depth != nil {
		meta.Depth = *m.Depth
	}
	if len(m.Extra) > 0 {
		meta.Extra = m.Extra
	}
	return meta
}

func toNode(nd NodeDoc) domain.Node {
	node := domain.Node{
		ID:         nd.ID,
		Text:       nd.Text,
		Background: nd.Bg,
	}
	if len(nd.Choices) > 0 {
		node.Choices = make([]domain.Choice, len(nd.Choices))
		for i, c := range nd.Choices {
			node.Choices[i] = domain.Choice{Label: c.Label, To: c.To}
		}
	}
	if nd.Ending != nil {
		node.Ending = &domain.Ending{Tag: nd.Ending.Tag}
	}
	return node
}

// Meta returns the scenario-wide settings.
func (s *Store) Meta() domain.Meta {
	return s.meta
}

// Depth returns the declared tree depth.
func (s *Store) Depth() int {
	return s.meta.Depth
}

// Len returns the number of distinct nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Report returns the non-fatal findings gathered at load time.
func (s *Store) Report() Report {
	return s.report
}

// Get returns the node with the exact identifier.
func (s *Store) Get(id string) (domain.Node, bool) {
	node, ok := s.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return cloneNode(node), true
}

// Has reports whether id is defined.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// GetOrFallback resolves id, falling back to the root node and then to the first
// node in definition order. It panics on a store without nodes, which Load never returns.
func (s *Store) GetOrFallback(id string) domain.Node {
	if node, ok := s.Get(id); ok {
		return node
	}
	s.log().Warn("node not found, falling back to root", "node_id", id)

	if node, ok := s.Get(domain.RootID); ok {
		return node
	}
	if len(s.order) == 0 {
		panic("scenario: no nodes available; the store was not built by Load")
	}
	s.log().Error("root node missing, using first defined node", "node_id", s.order[0])
	return cloneNode(s.nodes[s.order[0]])
}

// Nodes returns every node in definition order.
func (s *Store) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneNode(s.nodes[id]))
	}
	return out
}

func (s *Store) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger
}

func cloneNode(n domain.Node) domain.Node {
	if n.Choices != nil {
		n.Choices = append([]domain.Choice(nil), n.Choices...)
	}
	if n.Ending != nil {
		e := *n.Ending
		n.Ending = &e
	}
	return n
}
