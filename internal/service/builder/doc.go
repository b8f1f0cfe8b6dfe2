// Package builder holds the entry points behind the crossbuild
// subcommands. Each build is a fixed, strictly linear sequence: parse
// the release version from the tarball name, unpack the tarball into a
// scratch workspace, cross-compile the target package, and, for Windows
// targets, hand the binary to the installer packaging step. Setup
// provisions the cross-compiling toolchain a build directory needs
// before any of that can happen.
package builder
