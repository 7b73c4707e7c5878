package dsl

import (
	"fmt"

	"github.com/aretw0/routes64/pkg/scenario"
)

// Builder manages the tree construction. Nodes keep the order they were added in.
type Builder struct {
	meta  scenario.MetaDoc
	order []*NodeBuilder
	nodes map[string]*NodeBuilder
}

// New creates a builder for a scenario with the given title and declared depth.
func New(title string, depth int) *Builder {
	return &Builder{
		meta:  scenario.MetaDoc{Title: title, Depth: &depth},
		nodes: make(map[string]*NodeBuilder),
	}
}

// Background sets the default background used by nodes without their own.
func (b *Builder) Background(path string) *Builder {
	b.meta.DefaultBackground = path
	return b
}

// Font sets the font asset.
func (b *Builder) Font(path string) *Builder {
	b.meta.Font = path
	return b
}

// RainBGM sets the background music asset.
func (b *Builder) RainBGM(path string) *Builder {
	b.meta.RainBGM = path
	return b
}

// Add creates a new node in the tree.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{node: scenario.NodeDoc{ID: id}}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// Document returns the raw document the builder describes.
func (b *Builder) Document() *scenario.Document {
	doc := &scenario.Document{Meta: b.meta}
	for _, nb := range b.order {
		doc.Nodes = append(doc.Nodes, nb.Build())
	}
	return doc
}

// Build compiles the tree into a scenario store.
func (b *Builder) Build(opts ...scenario.Option) (*scenario.Store, error) {
	store, err := scenario.Build(b.Document(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %q: %w", b.meta.Title, err)
	}
	return store, nil
}
