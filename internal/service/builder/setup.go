package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/juju/crossbuild/internal/config"
	"github.com/juju/crossbuild/internal/logger"
	"github.com/juju/crossbuild/internal/workdir"
)

// crossTargets are the platform pairs the toolchain is rebuilt for.
// Old-style Go cross builds need one make.bash pass per target platform.
//
//nolint:gochecknoglobals // Fixed table.
var crossTargets = [][2]string{
	{"windows", "386"},
	{"darwin", "amd64"},
}

// Setup provisions BuildDir for cross building: it downloads the Go
// source tarball, unpacks it to golang-<version>, and rebuilds the
// toolchain once per target platform. Every external command honours
// dry-run through the runner.
func Setup(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "setup")
	ctx = logger.WithKV(ctx, "build_id", uuid.NewString())

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(opts.BuildDir, 0o755); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}

	runner := newRunner(opts.DryRun, opts.Verbose)
	archivePath := filepath.Join(opts.BuildDir, filepath.Base(cfg.GoSourceURL))
	goroot := filepath.Join(opts.BuildDir, "golang-"+cfg.GoVersion)

	logger.InfoKV(ctx, "Downloading Go toolchain", "url", cfg.GoSourceURL)

	if _, err = runner.Run(ctx, []string{"curl", "-L", "-s", "-o", archivePath, cfg.GoSourceURL}, nil); err != nil {
		return fmt.Errorf("download toolchain: %w", err)
	}

	if _, err = runner.Run(ctx, []string{"tar", "-xzf", archivePath, "-C", opts.BuildDir}, nil); err != nil {
		return fmt.Errorf("unpack toolchain: %w", err)
	}

	// The source tarball unpacks to "go"; builds expect golang-<version>.
	if !opts.DryRun {
		if err = os.Rename(filepath.Join(opts.BuildDir, "go"), goroot); err != nil {
			return fmt.Errorf("rename toolchain root: %w", err)
		}
	}

	for _, pair := range crossTargets {
		goos, goarch := pair[0], pair[1]

		logger.InfoKV(ctx, "Building toolchain for target", "os", goos, "arch", goarch)

		env := map[string]string{"GOOS": goos, "GOARCH": goarch}
		run := func() error {
			_, runErr := runner.Run(ctx, []string{"./make.bash", "--no-clean"}, env)

			return runErr
		}

		// Under dry-run the toolchain tree does not exist, so there is
		// no directory to enter; the intended command is still logged.
		if opts.DryRun {
			if err = run(); err != nil {
				return fmt.Errorf("build toolchain for %s/%s: %w", goos, goarch, err)
			}

			continue
		}

		if err = workdir.In(filepath.Join(goroot, "src"), run); err != nil {
			return fmt.Errorf("build toolchain for %s/%s: %w", goos, goarch, err)
		}
	}

	logger.Infof(ctx, "Cross build environment ready in %s", opts.BuildDir)

	return nil
}
