// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Every build step accepts a context and extracts the logger from it,
// so subprocess invocations and artifact moves are logged under the
// subcommand that triggered them.
package logger
