// Command crossbuild cross-compiles juju client and agent binaries for
// Windows and macOS from a source tarball, wrapping Windows binaries
// into an Inno Setup installer compiled under xvfb-run and wine.
package main

import "github.com/juju/crossbuild/cmd/crossbuild/cmd"

func main() {
	cmd.Execute()
}
