// Package tarball handles the source tarballs fed to the build commands:
// parsing the release version out of the file name and unpacking the
// archive into a temporary workspace that is removed again when the
// build is done with it.
package tarball
