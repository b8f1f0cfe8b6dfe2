// Package workdir changes the process working directory for the span of
// one callback. The working directory is process-global state, so scopes
// must stay single-threaded and strictly nested; the only consumer is
// the installer compiler, which resolves its script relative to the
// directory it is started in.
package workdir

import (
	"fmt"
	"os"
)

// In runs fn with dir as the current working directory and restores the
// previous directory afterwards, whether fn succeeds or fails.
func In(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	if err = os.Chdir(dir); err != nil {
		return fmt.Errorf("enter %s: %w", dir, err)
	}

	defer func() {
		// Restoring the previous directory must not be skipped on error paths.
		_ = os.Chdir(prev)
	}()

	return fn()
}
