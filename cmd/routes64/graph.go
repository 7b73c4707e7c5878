package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
	"github.com/aretw0/routes64/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [scenario]",
	Short: "Export the scenario tree as a Mermaid diagram",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		game, err := cli.NewGame(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer game.Close()

		var overlay *graph.Overlay
		if show, _ := cmd.Flags().GetBool("overlay"); show {
			state, err := game.Saves().Load(cmd.Context())
			if err != nil {
				return err
			}
			if state != nil {
				overlay = graph.OverlayFromState(*state)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(game.Nodes().Nodes(), overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().Bool("overlay", false, "Highlight the trail of the current save")
	rootCmd.AddCommand(graphCmd)
}
