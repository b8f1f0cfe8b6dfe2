package tarball

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Suffix is the only archive format the build commands accept.
const Suffix = ".tar.gz"

// versionPattern matches the trailing dotted three-part version after the
// final underscore of a tarball base name, e.g. juju-core_1.2.3.
var versionPattern = regexp.MustCompile(`_(\d+\.\d+\.\d+)$`)

// Version extracts the release version embedded in a tarball name.
// "foo_1.2.3.tar.gz" and "bzr/foo_1.2.3.tar.gz" both yield "1.2.3".
func Version(path string) (string, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Suffix) {
		return "", fmt.Errorf("%q does not end in %s", path, Suffix)
	}

	stem := strings.TrimSuffix(base, Suffix)

	match := versionPattern.FindStringSubmatch(stem)
	if match == nil {
		return "", fmt.Errorf("no version found in tarball name %q", path)
	}

	return match[1], nil
}
