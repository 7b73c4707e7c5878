package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario]",
	Short: "Serve a session over HTTP with live events and metrics",
	Long: `Starts an HTTP server exposing the session:
  GET  /state, /events (SSE), /graph, /metrics, /healthz
  POST /intents/begin, /intents/continue, /intents/restart, /intents/choice/{index}`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		game, err := cli.NewGame(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer game.Close()

		return cli.Serve(ctx, cfg.HTTPAddr, game, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
