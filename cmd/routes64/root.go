package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/routes64/internal/cli"
	"github.com/aretw0/routes64/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "routes64",
	Short: "routes64 plays branching binary-tree stories",
	Long: `routes64 walks a scenario where every node offers two choices, up to 24 levels deep.
Progress is saved after each choice and can be resumed from the title screen.

Settings come from ROUTES64_* environment variables; flags override them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("scenario", "", "Path to the scenario file (JSON or YAML)")
	flags.String("save-dir", "", "Directory for file and sqlite saves")
	flags.String("slot", "", "Save slot name")
	flags.String("backend", "", "Save backend: file, memory, redis, sqlite or none")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("allow-duplicates", false, "Let later duplicate node ids replace earlier ones")
}

// setup reads the environment, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Parse()
	if err != nil {
		return config.Config{}, nil, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("scenario", &cfg.Scenario)
	override("save-dir", &cfg.SaveDir)
	override("slot", &cfg.SaveSlot)
	override("backend", &cfg.SaveBackend)
	override("log-level", &cfg.LogLevel)
	if flags.Changed("allow-duplicates") {
		cfg.AllowDuplicates, _ = flags.GetBool("allow-duplicates")
	}
	if !flags.Changed("scenario") && len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
