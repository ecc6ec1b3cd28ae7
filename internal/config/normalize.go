package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = defaultBackend
	}
	c.Region = strings.TrimSpace(c.Region)
	c.Profile = strings.TrimSpace(c.Profile)

	if err := c.normalizeLocal(); err != nil {
		return err
	}
	if c.Tail.IntervalSeconds == 0 {
		c.Tail.IntervalSeconds = defaultTailInterval
	}
	if c.Results.MaxLines == 0 {
		c.Results.MaxLines = defaultMaxLines
	}
	if c.Results.EvictLines == 0 {
		c.Results.EvictLines = defaultEvictLines
	}
	if err := c.normalizePresets(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeLocal() error {
	var err error
	if c.Local.Dir, err = expandPath(strings.TrimSpace(c.Local.Dir)); err != nil {
		return fmt.Errorf("local.dir: %w", err)
	}
	if c.Local.PageSize == 0 {
		c.Local.PageSize = defaultPageSize
	}
	return nil
}

func (c *Config) normalizePresets() error {
	if strings.TrimSpace(c.Presets.Path) == "" {
		c.Presets.Path = defaultPresetsPath
	}
	var err error
	if c.Presets.Path, err = expandPath(strings.TrimSpace(c.Presets.Path)); err != nil {
		return fmt.Errorf("presets.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
