// Package command runs the external tools every build step shells out to:
// the go compiler, tar, curl, and the wine-wrapped installer compiler.
//
// Runner is the single seam for dry-run behaviour: an ExecRunner with
// DryRun set logs the intended argv and environment overlay without
// starting a process, so every caller inherits consistent dry-run
// semantics instead of sprinkling its own conditionals. Recorder is the
// test double used across the repository to assert invocations.
package command
