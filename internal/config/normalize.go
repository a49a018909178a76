package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeViewer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RuntimeDir) == "" {
		c.Paths.RuntimeDir = defaultRuntimeDir
	}
	if c.Paths.RuntimeDir, err = ExpandPath(c.Paths.RuntimeDir); err != nil {
		return fmt.Errorf("paths.runtime_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = filepath.Join(c.Paths.RuntimeDir, defaultLockFileName)
	} else if c.Paths.LockFile, err = ExpandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.Socket) == "" {
		c.Paths.Socket = filepath.Join(c.Paths.RuntimeDir, defaultSocketName)
	} else if c.Paths.Socket, err = ExpandPath(c.Paths.Socket); err != nil {
		return fmt.Errorf("paths.socket: %w", err)
	}
	return nil
}

func (c *Config) normalizeViewer() {
	c.Viewer.Tonemap = strings.ToLower(strings.TrimSpace(c.Viewer.Tonemap))
	if c.Viewer.Tonemap == "" {
		c.Viewer.Tonemap = defaultTonemap
	}
	c.Viewer.Metric = strings.ToLower(strings.TrimSpace(c.Viewer.Metric))
	if c.Viewer.Metric == "" {
		c.Viewer.Metric = defaultMetric
	}
	if c.Viewer.PollIntervalMillis <= 0 {
		c.Viewer.PollIntervalMillis = defaultPollIntervalMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
