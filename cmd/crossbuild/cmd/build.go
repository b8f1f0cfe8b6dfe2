package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/juju/crossbuild/internal/service/builder"
)

// buildDir is the directory holding the provisioned cross toolchain.
var buildDir string //nolint:gochecknoglobals // Cobra flag target.

// newBuildCommand returns a subcommand taking one tarball argument and
// dispatching to the given build entry point.
func newBuildCommand(use, short string, run func(context.Context, *builder.Options) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tarball>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx, &builder.Options{
				ConfigPath:  configPath,
				BuildDir:    buildDir,
				TarballPath: args[0],
				DryRun:      dryRun,
				Verbose:     verbose,
			})
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision a build directory with the cross-compiling Go toolchain",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return builder.Setup(ctx, &builder.Options{
				ConfigPath: configPath,
				BuildDir:   buildDir,
				DryRun:     dryRun,
				Verbose:    verbose,
			})
		},
	}

	commands := []*cobra.Command{
		setupCmd,
		newBuildCommand("win-client", "Build the Windows juju client and its installer", builder.WinClient),
		newBuildCommand("win-agent", "Build the Windows juju agent and its installer", builder.WinAgent),
		newBuildCommand("osx-client", "Build the macOS juju client", builder.OSXClient),
	}

	for _, command := range commands {
		command.Flags().StringVar(&buildDir, "build-dir", "", "directory holding the cross toolchain")
		_ = command.MarkFlagRequired("build-dir")
		rootCmd.AddCommand(command)
	}
}
