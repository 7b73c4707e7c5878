/*
Package dsl builds routes64 scenarios in Go code instead of JSON or YAML files.

It is handy for tests and for generated trees, and it goes through the same
structural checks as files loaded from disk.

Example usage:

	b := dsl.New("Coin", 1)

	b.Add("R").
		Text("Heads or tails?").
		Choice("Heads", "R1").
		Choice("Tails", "R0")

	b.Add("R1").Text("Heads it is.").Ending("heads")
	b.Add("R0").Text("Tails it is.").Ending("tails")

	nodes, err := b.Build()
	// ... pass nodes to routes64.NewFromStore(...)
*/
package dsl
