package config

import (
	"errors"
	"fmt"

	"github.com/psacc/lumberjack/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateTail(); err != nil {
		return err
	}
	if err := c.validateResults(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	if c.Backend == "" {
		return errors.New("backend must be set")
	}
	if c.Local.PageSize < 0 {
		return errors.New("local.page_size must not be negative")
	}
	return nil
}

func (c *Config) validateTail() error {
	if c.Tail.IntervalSeconds < 1 {
		return errors.New("tail.interval_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateResults() error {
	if c.Results.MaxLines < 1 {
		return errors.New("results.max_lines must be positive")
	}
	if c.Results.EvictLines < 1 || c.Results.EvictLines > c.Results.MaxLines {
		return fmt.Errorf("results.evict_lines must be between 1 and results.max_lines (%d)", c.Results.MaxLines)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use text or json)", c.Logging.Format)
	}
}
