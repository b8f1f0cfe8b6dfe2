package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds paths and versions of the external tools driven by crossbuild.
type Config struct {
	// GoVersion is the Go release provisioned by `crossbuild setup` and
	// expected under <build-dir>/golang-<GoVersion> by the build commands.
	GoVersion string `yaml:"go_version"`
	// GoSourceURL is the Go source tarball downloaded by `crossbuild setup`.
	GoSourceURL string `yaml:"go_source_url"`
	// IsccPath is the Inno Setup compiler inside the wine prefix.
	IsccPath string `yaml:"iscc_path"`
	// WineCommand is the Windows-compatibility wrapper used to run ISCC.
	WineCommand string `yaml:"wine_command"`
	// XvfbCommand is the virtual-display wrapper ISCC runs under.
	XvfbCommand string `yaml:"xvfb_command"`
}

const (
	// DefaultConfigFilename is the default filename for crossbuild settings.
	DefaultConfigFilename = "crossbuild-settings.yaml"

	// DefaultGoVersion is the toolchain release used when settings omit one.
	DefaultGoVersion = "1.2.1"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and fills in defaults.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// applyDefaults fills empty fields with working defaults.
func applyDefaults(cfg *Config) {
	if cfg.GoVersion == "" {
		cfg.GoVersion = DefaultGoVersion
	}

	if cfg.GoSourceURL == "" {
		cfg.GoSourceURL = fmt.Sprintf("https://go.dev/dl/go%s.src.tar.gz", cfg.GoVersion)
	}

	if cfg.IsccPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}

		cfg.IsccPath = filepath.Join(home, ".wine", "drive_c", "Inno Setup 5", "ISCC.exe")
	}

	if cfg.WineCommand == "" {
		cfg.WineCommand = "wine"
	}

	if cfg.XvfbCommand == "" {
		cfg.XvfbCommand = "xvfb-run"
	}
}
