package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/crossbuild/internal/command"
	"github.com/juju/crossbuild/internal/config"
	"github.com/juju/crossbuild/internal/logger"
	"github.com/juju/crossbuild/internal/workdir"
)

const (
	// ScriptDir is the installer asset directory inside the source tree.
	ScriptDir = "scripts/win-installer"
	// ScriptFile is the Inno Setup script compiled by ISCC.
	ScriptFile = "setup.iss"
	// OutputDir is the subdirectory ISCC deposits the installer in.
	OutputDir = "output"

	// product is the name baked into the installer artifact by the script.
	product = "juju"
)

// ArtifactName returns the installer file name ISCC produces for a release.
func ArtifactName(version string) string {
	return fmt.Sprintf("%s-setup-%s.exe", product, version)
}

// Builder compiles an installer out of a staged binary.
type Builder struct {
	// Cfg supplies the ISCC path and the wine/xvfb wrapper commands.
	Cfg *config.Config
	// DryRun gates the final artifact relocation. The ISCC invocation
	// itself always executes: the compiled installer is the evidence a
	// dry run is meant to produce for inspection.
	DryRun bool
	// Verbose is passed through to the compiler invocation.
	Verbose bool

	// runnerFactory builds the runner for the compile step. Tests
	// replace it; when nil, an ExecRunner is used.
	runnerFactory func(dryRun, verbose bool) command.Runner
}

// Make stages binPath into the installer script directory, compiles the
// installer there, then (outside dry-run) moves the artifact named after
// version into destDir. Any missing file or compiler failure aborts the
// whole build.
func (b *Builder) Make(ctx context.Context, binPath, version, stagingRoot, destDir string) error {
	issDir := filepath.Join(stagingRoot, ScriptDir)

	// The binary move is not gated by dry-run: the staged layout is what
	// a dry run leaves behind for manual inspection.
	logger.InfoKV(ctx, "Staging binary for packaging", "binary", binPath, "dir", issDir)

	if err := move(binPath, filepath.Join(issDir, filepath.Base(binPath))); err != nil {
		return fmt.Errorf("stage binary: %w", err)
	}

	if err := ensureCompilerIdle(b.Cfg); err != nil {
		return err
	}

	if err := b.compile(ctx, issDir); err != nil {
		return fmt.Errorf("compile installer: %w", err)
	}

	if b.DryRun {
		logger.Infof(ctx, "dry run: leaving %s in %s",
			ArtifactName(version), filepath.Join(issDir, OutputDir))

		return nil
	}

	artifact := ArtifactName(version)
	src := filepath.Join(issDir, OutputDir, artifact)
	dst := filepath.Join(destDir, artifact)

	logger.InfoKV(ctx, "Delivering installer", "artifact", dst)

	if err := move(src, dst); err != nil {
		return fmt.Errorf("deliver installer: %w", err)
	}

	return nil
}

// compile runs ISCC inside the script directory, under xvfb-run and wine.
// ISCC resolves setup.iss and its output directory relative to the
// directory it is started in, hence the workdir scope.
func (b *Builder) compile(ctx context.Context, issDir string) error {
	factory := b.runnerFactory
	if factory == nil {
		factory = func(dryRun, verbose bool) command.Runner {
			return &command.ExecRunner{DryRun: dryRun, Verbose: verbose}
		}
	}

	// Dry-run is forced off here: even a dry-run build compiles the
	// installer so there is an artifact to inspect.
	runner := factory(false, b.Verbose)

	return workdir.In(issDir, func() error {
		_, err := runner.Run(ctx,
			[]string{b.Cfg.XvfbCommand, b.Cfg.WineCommand, b.Cfg.IsccPath, ScriptFile}, nil)

		return err
	})
}

// move relocates a file, copying across filesystems when rename fails.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file.

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	if err = out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
