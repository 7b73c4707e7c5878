package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/routes64"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of routes64",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "routes64 version %s\n", strings.TrimSpace(routes64.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
