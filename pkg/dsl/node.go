package dsl

import "github.com/aretw0/routes64/pkg/scenario"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node scenario.NodeDoc
}

// Text sets the narration shown for the node.
func (n *NodeBuilder) Text(content string) *NodeBuilder {
	n.node.Text = content
	return n
}

// Background overrides the scenario background for this node.
func (n *NodeBuilder) Background(path string) *NodeBuilder {
	n.node.Bg = path
	return n
}

// Choice appends a labelled edge. The first choice added is index 0.
func (n *NodeBuilder) Choice(label, target string) *NodeBuilder {
	n.node.Choices = append(n.node.Choices, scenario.ChoiceDoc{Label: label, To: target})
	return n
}

// Ending tags the node as an ending.
func (n *NodeBuilder) Ending(tag string) *NodeBuilder {
	n.node.Ending = &scenario.EndingDoc{Tag: tag}
	return n
}

// Terminal drops any choices so the node becomes a leaf.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.node.Choices = nil
	return n
}

// Build returns a copy of the underlying node document.
func (n *NodeBuilder) Build() scenario.NodeDoc {
	out := n.node
	out.Choices = append([]scenario.ChoiceDoc(nil), n.node.Choices...)
	if n.node.Ending != nil {
		e := *n.node.Ending
		out.Ending = &e
	}
	return out
}
