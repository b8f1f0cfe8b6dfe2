// Package version exposes build metadata injected via ldflags and a
// cobra subcommand that prints it.
package version
