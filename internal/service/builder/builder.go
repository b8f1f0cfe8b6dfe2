package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/juju/crossbuild/internal/command"
	"github.com/juju/crossbuild/internal/config"
	"github.com/juju/crossbuild/internal/gobuild"
	"github.com/juju/crossbuild/internal/installer"
	"github.com/juju/crossbuild/internal/logger"
	"github.com/juju/crossbuild/internal/tarball"
)

// Options contains inputs shared by every crossbuild subcommand.
type Options struct {
	// ConfigPath is an optional path to the crossbuild settings YAML.
	ConfigPath string
	// BuildDir is the directory holding the provisioned cross toolchain.
	BuildDir string
	// TarballPath is the source tarball to build from (unused by Setup).
	TarballPath string
	// DryRun logs external commands instead of executing them.
	DryRun bool
	// Verbose raises command logging to info level.
	Verbose bool
}

// target fixes the constants distinguishing one build flavour from another.
type target struct {
	// name labels log output for the subcommand.
	name string
	// pkg is the package path handed to the go compiler.
	pkg string
	// binary is the file the compiler drops next to the package sources.
	binary string
	// goarch and goos select the cross-compilation platform.
	goarch string
	goos   string
	// wantInstaller enables the Windows installer packaging step.
	wantInstaller bool
}

// Injection points for unit tests. Centralized here so dependencies like
// the command runner are explicit across the orchestration funcs.
//
//nolint:gochecknoglobals // Swapped out by tests.
var (
	newRunner = func(dryRun, verbose bool) command.Runner {
		return &command.ExecRunner{DryRun: dryRun, Verbose: verbose}
	}

	makeInstaller = func(ctx context.Context, b *installer.Builder,
		binPath, version, stagingRoot, destDir string) error {
		return b.Make(ctx, binPath, version, stagingRoot, destDir)
	}
)

// WinClient cross-compiles the Windows juju client and wraps it into an installer.
func WinClient(ctx context.Context, opts *Options) error {
	return buildTarget(ctx, opts, target{
		name:          "win-client",
		pkg:           "github.com/juju/juju/cmd/juju",
		binary:        "juju.exe",
		goarch:        "386",
		goos:          "windows",
		wantInstaller: true,
	})
}

// WinAgent cross-compiles the Windows juju agent and wraps it into an installer.
func WinAgent(ctx context.Context, opts *Options) error {
	return buildTarget(ctx, opts, target{
		name:          "win-agent",
		pkg:           "github.com/juju/juju/cmd/jujud",
		binary:        "jujud.exe",
		goarch:        "386",
		goos:          "windows",
		wantInstaller: true,
	})
}

// OSXClient cross-compiles the macOS juju client. There is no installer
// step: the bare binary is the deliverable.
func OSXClient(ctx context.Context, opts *Options) error {
	return buildTarget(ctx, opts, target{
		name:   "osx-client",
		pkg:    "github.com/juju/juju/cmd/juju",
		binary: "juju",
		goarch: "amd64",
		goos:   "darwin",
	})
}

// buildTarget runs the extract → build → (package) sequence for one target.
func buildTarget(ctx context.Context, opts *Options, t target) error {
	ctx = logger.WithName(ctx, t.name)
	ctx = logger.WithKV(ctx, "build_id", uuid.NewString())

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	version, err := tarball.Version(opts.TarballPath)
	if err != nil {
		return err
	}

	// The installer lands in the directory the user invoked us from,
	// captured before the workspace scope moves anything around.
	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine destination directory: %w", err)
	}

	runner := newRunner(opts.DryRun, opts.Verbose)
	goroot := filepath.Join(opts.BuildDir, "golang-"+cfg.GoVersion)

	logger.InfoKV(ctx, "Starting build", "tarball", opts.TarballPath, "version", version)

	err = tarball.WithSourceTree(ctx, opts.TarballPath, func(root string) error {
		if err := gobuild.Build(ctx, runner, t.pkg, goroot, root, t.goarch, t.goos); err != nil {
			return err
		}

		if !t.wantInstaller {
			return nil
		}

		binPath := filepath.Join(root, "src", filepath.FromSlash(t.pkg), t.binary)
		b := &installer.Builder{Cfg: cfg, DryRun: opts.DryRun, Verbose: opts.Verbose}

		return makeInstaller(ctx, b, binPath, version, root, destDir)
	})
	if err != nil {
		return fmt.Errorf("build %s %s: %w", t.goos, t.name, err)
	}

	logger.Infof(ctx, "Build of %s completed", t.name)

	return nil
}
