// Package installer wraps a cross-compiled Windows binary into a signed
// Inno Setup installer. The compiler is a Windows program, so it runs
// through wine, and wine needs a display, so the whole thing runs under
// xvfb-run. The installer script and its output directory are shipped
// inside the source tree under scripts/win-installer.
package installer
