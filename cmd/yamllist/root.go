package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	engineArg string
)

var rootCmd = &cobra.Command{
	Use:   "yamllist",
	Short: "yamllist - render YAML sequences as a single line",
	Long: `yamllist reads a YAML-like document, finds its top-level sequence and
prints the items on one line separated by ", ".

A scalar document is treated as a one-item list. Nested sequences and
mappings are written inline as [a, b] and {k: v}.

Configuration is read from --config when given, and from YAMLLIST_*
environment variables.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
}

// Execute runs the root command and exits with the command's status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&engineArg, "engine", "", "override parsing engine (native, yamlv3)")
}

// initialize loads configuration and installs the default logger before any
// subcommand runs.
func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return cli.NewConfigError("config", err.Error())
	}

	applyFlagOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}
	config.SetConfig(cfg)

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return nil
}

// applyFlagOverrides copies the global flags that shadow configuration
// fields into cfg.
func applyFlagOverrides(cfg *config.Config) {
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if engineArg != "" {
		cfg.Engine.Name = engineArg
	}
}
