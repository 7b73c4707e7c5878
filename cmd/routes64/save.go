package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect or remove the saved game",
}

var saveInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the raw save record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		saves := cli.OpenSaves(cmd.Context(), cfg, logger)
		defer saves.Close()
		return cli.InspectSave(cmd.Context(), saves, cmd.OutOrStdout())
	},
}

var saveRmCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"delete"},
	Short:   "Delete the saved game",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		saves := cli.OpenSaves(cmd.Context(), cfg, logger)
		defer saves.Close()
		return cli.DeleteSave(cmd.Context(), saves, cmd.OutOrStdout())
	},
}

func init() {
	saveCmd.AddCommand(saveInspectCmd, saveRmCmd)
	rootCmd.AddCommand(saveCmd)
}
