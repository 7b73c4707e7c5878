package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
)

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Play a scenario in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		fresh, _ := cmd.Flags().GetBool("fresh")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunPlay(ctx, cli.PlayOptions{
			Config:   cfg,
			Headless: headless,
			Fresh:    fresh,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		}, logger)
	},
}

func init() {
	playCmd.Flags().Bool("headless", false, "Plain output without prompts, banner or markdown rendering")
	playCmd.Flags().Bool("fresh", false, "Delete the save before starting")
	rootCmd.AddCommand(playCmd)
}
