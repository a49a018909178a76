package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains runtime file locations.
type Paths struct {
	// RuntimeDir holds the instance lock and the IPC socket.
	RuntimeDir string `toml:"runtime_dir"`
	LogDir     string `toml:"log_dir"`
	LockFile   string `toml:"lock_file"`
	Socket     string `toml:"socket"`
}

// Viewer contains display defaults applied at startup. The exposure,
// offset, tonemap, and metric values mirror the command-line flags and
// are overridden by them.
type Viewer struct {
	Exposure           float64 `toml:"exposure"`
	Offset             float64 `toml:"offset"`
	Tonemap            string  `toml:"tonemap"`
	Metric             string  `toml:"metric"`
	Filter             string  `toml:"filter"`
	PollIntervalMillis int     `toml:"poll_interval_millis"`
}

// Loader contains settings for background image decoding.
type Loader struct {
	// Workers sizes the general decode pool. Zero means one worker
	// per CPU. The startup-load pool is always a single worker.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for prism.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Viewer  Viewer  `toml:"viewer"`
	Loader  Loader  `toml:"loader"`
	Logging Logging `toml:"logging"`
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/prism/config.toml")
}

// Load locates, parses, and validates a configuration file. The
// returned config has all path fields expanded and normalized. The
// second return reports the resolved path, the third whether a file
// was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the runtime and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RuntimeDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ against the home directory and makes
// the result absolute. Empty input stays empty.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
