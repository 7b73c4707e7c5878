package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario]",
	Short: "Check a scenario and report lint findings",
	Long: `Loads the scenario, failing on structural errors (choice counts, duplicate ids,
dangling references) and listing missing endings, unreachable nodes and irregular ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		opts := cli.ScenarioOptions(cfg, logger)

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			return cli.WatchValidate(ctx, cfg.Scenario, opts, cmd.OutOrStdout(), logger)
		}
		return cli.Validate(cmd.Context(), cfg.Scenario, opts, cmd.OutOrStdout())
	},
}

func init() {
	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever the file changes")
	rootCmd.AddCommand(validateCmd)
}
