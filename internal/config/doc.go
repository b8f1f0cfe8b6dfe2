// Package config holds the settings for the external tools crossbuild
// drives: the Go toolchain version and source tarball it provisions, the
// Inno Setup compiler living inside a wine prefix, and the wrapper
// commands (wine, xvfb-run) used to run it headless.
//
// Settings live in a YAML file next to the binary. A missing file is not
// an error: every field has a working default.
package config
