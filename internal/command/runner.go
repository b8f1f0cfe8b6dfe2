package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/juju/crossbuild/internal/logger"
)

// errEmptyCommand is returned when an empty argument vector is provided.
var errEmptyCommand = errors.New("empty command")

// Runner executes an external process with an optional environment overlay.
// Implementations run synchronously and return combined stdout/stderr.
type Runner interface {
	Run(ctx context.Context, args []string, env map[string]string) ([]byte, error)
}

// ExecRunner runs commands on the local host via os/exec.
type ExecRunner struct {
	// DryRun suppresses execution: the intended invocation is only logged.
	DryRun bool
	// Verbose raises logging of executed commands from debug to info.
	Verbose bool
}

// Run executes args[0] with the remaining arguments, merging env over the
// process environment. With DryRun set, no process is started and nil
// output is returned. On non-zero exit the combined output is attached
// to the returned error.
func (r *ExecRunner) Run(ctx context.Context, args []string, env map[string]string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errEmptyCommand
	}

	rendered := renderInvocation(args, env)
	if r.DryRun {
		logger.Infof(ctx, "dry run: %s", rendered)

		return nil, nil
	}

	if r.Verbose {
		logger.Infof(ctx, "running: %s", rendered)
	} else {
		logger.Debugf(ctx, "running: %s", rendered)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // Argv comes from fixed build recipes.
	cmd.Env = mergeEnv(os.Environ(), env)

	output, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(output))
		if trimmed != "" {
			return output, fmt.Errorf("%s: %w\n%s", args[0], err, trimmed)
		}

		return output, fmt.Errorf("%s: %w", args[0], err)
	}

	return output, nil
}

// mergeEnv overlays the given variables over a base "KEY=VALUE" environment.
func mergeEnv(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(overlay))

	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, shadowed := overlay[key]; shadowed {
				continue
			}
		}

		merged = append(merged, kv)
	}

	for key, value := range overlay {
		merged = append(merged, key+"="+value)
	}

	return merged
}

// renderInvocation formats an argv and overlay for log output,
// with overlay keys sorted for stable messages.
func renderInvocation(args []string, env map[string]string) string {
	if len(env) == 0 {
		return strings.Join(args, " ")
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(env[key])
		builder.WriteString(" ")
	}

	builder.WriteString(strings.Join(args, " "))

	return builder.String()
}
