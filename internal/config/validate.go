package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateCuesheet(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateSplit() error {
	if _, err := deps.EncoderFor(c.Split.Format); err != nil {
		return fmt.Errorf("split.format: %w (supported: %s)", err, strings.Join(deps.Formats(), ", "))
	}
	if _, err := cuesheet.ParsePolicy(c.Split.Policy); err != nil {
		return fmt.Errorf("split.policy: %w", err)
	}
	if strings.ContainsAny(c.Split.Prefix, `/\`) {
		return fmt.Errorf("split.prefix %q must not contain path separators", c.Split.Prefix)
	}
	return nil
}

func (c *Config) validateCuesheet() error {
	if strings.EqualFold(c.Cuesheet.Charset, cuesheet.CharsetAuto) {
		return nil
	}
	if _, err := htmlindex.Get(c.Cuesheet.Charset); err != nil {
		return fmt.Errorf("cuesheet.charset: unknown charset %q", c.Cuesheet.Charset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.SettleSeconds < 0 {
		return errors.New("watch.settle_seconds must be positive")
	}
	return nil
}
