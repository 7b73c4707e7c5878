package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/routes64"
	"github.com/aretw0/routes64/internal/cli"
	"github.com/aretw0/routes64/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [scenario]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the session as MCP tools (view, begin_new, continue, choose, restart)
and the scenario as a resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output.
- sse: Uses Server-Sent Events over HTTP.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		game, err := cli.NewGame(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer game.Close()
		game.Session().Boot(ctx)

		srv := mcp.NewServer(game.Session(), game.Nodes(), routes64.Version, logger)

		switch transport {
		case "stdio":
			// JSON-RPC owns stdout.
			log.SetOutput(os.Stderr)
			logger.Info("starting MCP server", "transport", transport)
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server", "transport", transport, "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport to use (stdio, sse)")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port for SSE transport")
	rootCmd.AddCommand(mcpCmd)
}
