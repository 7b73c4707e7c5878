/*
Package domain contains the core domain models of the routes64 narrative engine.

It defines the entities of the binary decision tree and of a play session: Nodes
and their Choices, the traversal State, the persisted SaveRecord and the snapshots
handed to presentation layers. This package is kept pure and free of I/O.

# Identifier Scheme

Every node identifier is the root symbol "R" followed by one symbol per choice
made, drawn from {'0', '1'}. The identifier alone encodes the position in the
tree, so depth is always derived from it:

	Depth("R")    == 0
	Depth("R10")  == 2

# Key Entities

  - Node: A narrative beat with text, optional background, zero or two choices and an optional ending.
  - State: The traversal position (current id, derived depth, visited trail).
  - SaveRecord: The versioned, flattened form of State written to durable storage.
  - Snapshot: What a presentation layer needs to re-render after an intent is processed.
*/
package domain
