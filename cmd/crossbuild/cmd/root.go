// Package cmd wires the crossbuild subcommands to their build entry points.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/juju/crossbuild/internal/config"
	"github.com/juju/crossbuild/internal/logger"
	"github.com/juju/crossbuild/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// dryRun logs external commands instead of executing them.
	dryRun bool
	// verbose raises logging to debug level.
	verbose bool

	// rootCmd represents the base command for cross building releases.
	rootCmd = &cobra.Command{
		Use:   "crossbuild",
		Short: "Cross-compile and package juju releases for Windows and macOS",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(zapcore.DebugLevel)
			}
		},
	}
)

// Execute runs the crossbuild CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "log external commands instead of executing them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose command logging")
}
