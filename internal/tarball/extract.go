package tarball

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/crossbuild/internal/logger"
)

// errUnsafePath is returned for archive entries escaping the extraction root.
var errUnsafePath = errors.New("archive entry escapes extraction directory")

// WithSourceTree extracts the tarball at path into a fresh temporary
// directory and calls fn with the extracted top-level directory, named
// after the tarball's base name with the suffix stripped. The temporary
// directory and everything under it is removed when fn returns, on
// success and on error alike. A name not ending in a versioned
// _X.Y.Z.tar.gz suffix is rejected before anything touches the
// filesystem.
func WithSourceTree(ctx context.Context, path string, fn func(root string) error) error {
	if _, err := Version(path); err != nil {
		return err
	}

	base := filepath.Base(path)

	tmpDir, err := os.MkdirTemp("", "crossbuild-")
	if err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}

	defer func() {
		if removeErr := os.RemoveAll(tmpDir); removeErr != nil {
			logger.Warnf(ctx, "could not remove extraction directory %s: %v", tmpDir, removeErr)
		}
	}()

	logger.DebugKV(ctx, "Extracting tarball", "tarball", path, "dir", tmpDir)

	if err = extract(path, tmpDir); err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	root := filepath.Join(tmpDir, strings.TrimSuffix(base, Suffix))

	return fn(root)
}

// extract unpacks a gzip-compressed tarball into dst.
func extract(path, dst string) error {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck // Read-only file.

	gz, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gz.Close() //nolint:errcheck // Read-only stream.

	reader := tar.NewReader(gz)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		target, err := safeJoin(dst, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, os.FileMode(header.Mode)); err != nil { //nolint:gosec // Mode comes from the archive.
				return err
			}
		case tar.TypeReg:
			if err = writeFile(target, reader, os.FileMode(header.Mode)); err != nil { //nolint:gosec // Mode comes from the archive.
				return err
			}
		case tar.TypeSymlink:
			if err = os.Symlink(header.Linkname, target); err != nil {
				return err
			}
		default:
			// Character devices and the like have no business in a source tarball.
			return fmt.Errorf("unsupported entry type %d for %q", header.Typeflag, header.Name)
		}
	}
}

// writeFile creates the parent directory if needed and copies one archive entry.
func writeFile(target string, reader io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(file, reader); err != nil { //nolint:gosec // Source tarballs are trusted release inputs.
		_ = file.Close()

		return err
	}

	return file.Close()
}

// safeJoin joins name under dst, rejecting traversal outside dst.
func safeJoin(dst, name string) (string, error) {
	target := filepath.Join(dst, name)
	if target != dst && !strings.HasPrefix(target, dst+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", errUnsafePath, name)
	}

	return target, nil
}
