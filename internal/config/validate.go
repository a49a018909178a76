package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateViewer(); err != nil {
		return err
	}
	if err := c.validateLoader(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.RuntimeDir == "" {
		return errors.New("paths.runtime_dir must be set")
	}
	if c.Paths.LockFile == "" {
		return errors.New("paths.lock_file must be set")
	}
	if c.Paths.Socket == "" {
		return errors.New("paths.socket must be set")
	}
	return nil
}

func (c *Config) validateViewer() error {
	if c.Viewer.PollIntervalMillis < 1 {
		return errors.New("viewer.poll_interval_millis must be positive")
	}
	return nil
}

func (c *Config) validateLoader() error {
	if c.Loader.Workers < 0 {
		return fmt.Errorf("loader.workers must not be negative, got %d", c.Loader.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
