package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/juju/crossbuild/internal/config"
)

// listProcesses is an injection point for tests.
//
//nolint:gochecknoglobals // Swapped out by tests.
var listProcesses = ps.Processes

// ensureCompilerIdle refuses to start a compile while another wine or
// ISCC process is alive. The tool is strictly single-instance: two
// compilers racing over one wine prefix corrupt each other's output.
func ensureCompilerIdle(cfg *config.Config) error {
	procs, err := listProcesses()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	iscc := strings.ToLower(filepath.Base(cfg.IsccPath))
	wine := strings.ToLower(filepath.Base(cfg.WineCommand))

	for _, proc := range procs {
		name := strings.ToLower(proc.Executable())
		if name == iscc || name == wine {
			return fmt.Errorf("installer compiler busy: %s is already running (pid %d)",
				proc.Executable(), proc.Pid())
		}
	}

	return nil
}
