/*
Package scenario implements the NodeStore: the immutable, load-time validated map
from node identifier to node content.

A scenario document (JSON or YAML) is parsed into a Document, structurally
checked, and built into a Store. Broken content is rejected as a whole:

  - a node with neither zero nor two choices,
  - two nodes sharing an identifier (unless WithDuplicatePolicy(LastWins) is set),
  - a choice pointing at an undefined node.

Softer problems (missing canonical endings, unreachable or irregular identifiers)
are collected in a Report and logged as warnings without affecting the result.

A built Store is read-only and safe for concurrent readers.
*/
package scenario
