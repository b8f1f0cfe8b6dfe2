// Package gobuild invokes the go compiler for a cross-compilation
// target. The target platform and the roots of the toolchain and the
// workspace are selected purely through the environment handed to the
// child process, the way pre-1.5 Go cross builds were driven.
package gobuild

import (
	"context"

	"github.com/juju/crossbuild/internal/command"
	"github.com/juju/crossbuild/internal/logger"
)

// Build compiles pkg with the toolchain at goroot against the workspace
// at gopath, targeting goos/goarch. The four variables are the whole
// contract with the compiler; everything else is inherited.
func Build(ctx context.Context, runner command.Runner, pkg, goroot, gopath, goarch, goos string) error {
	logger.InfoKV(ctx, "Building package",
		"package", pkg, "arch", goarch, "os", goos)

	env := map[string]string{
		"GOROOT": goroot,
		"GOPATH": gopath,
		"GOARCH": goarch,
		"GOOS":   goos,
	}

	_, err := runner.Run(ctx, []string{"go", "build", pkg}, env)

	return err
}
