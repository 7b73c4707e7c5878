/*
Package routes64 plays branching visual-novel scenarios shaped as binary decision trees.

A scenario is a single JSON or YAML document listing nodes. Every node has either two
choices or none, and node identifiers encode their position in the tree: "R" is the root
and each choice appends a bit ("R1", "R10", ...). A player starts at the root, makes one
choice per step and reaches an ending once the path is as deep as the scenario declares.
Progress is auto-saved after each choice and can be resumed from the title screen.

# Architecture

  - pkg/scenario loads and validates the document into a read-only node store.
  - internal/runtime is the pure scenario engine (transition, ending detection, views).
  - pkg/persistence saves and versions the traversal state over a ports.SaveStore.
  - pkg/session is the Boot, Title, Playing, Ending state machine driven by intents.
  - pkg/adapters hold the file, memory, redis and sqlite save stores plus the HTTP and MCP
    transports.

# Usage

	game, err := routes64.New("assets/scenario.json",
		routes64.WithPersistence(persistence.OpenOrDisabled(logger)),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ctx := context.Background()
	ctrl := game.Session()
	ctrl.Boot(ctx)

	snap := ctrl.Dispatch(ctx, domain.BeginNew())
	fmt.Println(snap.View.Text)

	snap = ctrl.Dispatch(ctx, domain.Choose(0))

For a terminal loop over any io.Reader and io.Writer, see Runner.
*/
package routes64
