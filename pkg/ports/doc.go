/*
Package ports defines the driven ports (interfaces) of the routes64 engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to run with various save backends and scenario sources.

# Key Interfaces

  - SaveStore: Persists and retrieves SaveRecords by slot name.
  - ScenarioSource: Provides the raw scenario definition.
  - Watchable: Optional capability of sources that can signal content changes.
*/
package ports
