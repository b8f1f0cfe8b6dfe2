package tarball

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersion covers valid and malformed tarball names.
func TestVersion(t *testing.T) {
	t.Parallel()

	got, err := Version("foo_1.2.3.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", got)

	got, err = Version("bzr/foo_1.2.3.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "1.2.3", got)

	got, err = Version("juju-core_10.20.30.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "10.20.30", got)

	for _, name := range []string{
		"foo_1.2.3.zip",
		"foo-1.2.3.tar.gz",
		"foo_1.2.tar.gz",
		"foo_1.2.3.4.tar.gz",
		"foo.tar.gz",
	} {
		_, err = Version(name)
		require.Error(t, err, name)
	}
}

// writeTarball creates a gzip-compressed tarball holding a single
// top-level directory with one file inside.
func writeTarball(t *testing.T, path, topDir string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     topDir + "/",
		Typeflag: tar.TypeDir,
		Mode:     0o755,
	}))

	contents := []byte("package main\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     topDir + "/main.go",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(contents)),
	}))
	_, err = tw.Write(contents)
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())
}

// TestWithSourceTreeRoundTrip extracts a real tarball and checks cleanup afterwards.
func TestWithSourceTreeRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "juju-core_1.2.3.tar.gz")
	writeTarball(t, path, "juju-core_1.2.3")

	var seenRoot string

	err := WithSourceTree(context.Background(), path, func(root string) error {
		seenRoot = root
		require.Equal(t, "juju-core_1.2.3", filepath.Base(root))
		require.DirExists(t, root)
		require.FileExists(t, filepath.Join(root, "main.go"))

		return nil
	})
	require.NoError(t, err)

	// The whole temporary tree is gone after the scope exits.
	_, err = os.Stat(seenRoot)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Dir(seenRoot))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestWithSourceTreeCleansUpOnError ensures cleanup also happens when fn fails.
func TestWithSourceTreeCleansUpOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "juju-core_1.2.3.tar.gz")
	writeTarball(t, path, "juju-core_1.2.3")

	errBoom := errors.New("boom")

	var seenRoot string

	err := WithSourceTree(context.Background(), path, func(root string) error {
		seenRoot = root

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = os.Stat(filepath.Dir(seenRoot))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestWithSourceTreeRejectsWrongSuffix ensures rejection happens before any filesystem work.
func TestWithSourceTreeRejectsWrongSuffix(t *testing.T) {
	t.Parallel()

	called := false

	for _, name := range []string{"foo_1.2.3.tgz", "foo.tar.gz"} {
		err := WithSourceTree(context.Background(), name, func(string) error {
			called = true

			return nil
		})
		require.Error(t, err, name)
	}

	require.False(t, called)
}
