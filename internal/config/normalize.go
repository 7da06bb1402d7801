package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSplit()
	c.normalizeTools()
	c.normalizeLogging()
	if strings.TrimSpace(c.Cuesheet.Charset) == "" {
		c.Cuesheet.Charset = defaultCharset
	}
	if c.Watch.SettleSeconds == 0 {
		c.Watch.SettleSeconds = defaultSettleSeconds
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WatchDir, err = expandPath(strings.TrimSpace(c.Paths.WatchDir)); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if c.Tools.Dir, err = expandPath(strings.TrimSpace(c.Tools.Dir)); err != nil {
		return fmt.Errorf("tools.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSplit() {
	c.Split.Format = strings.ToLower(strings.TrimSpace(c.Split.Format))
	if c.Split.Format == "" {
		c.Split.Format = defaultFormat
	}
	c.Split.Policy = strings.ToLower(strings.TrimSpace(c.Split.Policy))
	if c.Split.Policy == "" {
		c.Split.Policy = defaultPolicy
	}
	c.Split.Prefix = strings.TrimSpace(c.Split.Prefix)
	if c.Split.Prefix == "" {
		c.Split.Prefix = defaultPrefix
	}
}

func (c *Config) normalizeTools() {
	defaults := Default().Tools
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Tools.Shnsplit, defaults.Shnsplit)
	fill(&c.Tools.Shnlen, defaults.Shnlen)
	fill(&c.Tools.Shnhash, defaults.Shnhash)
	fill(&c.Tools.FFmpeg, defaults.FFmpeg)
	fill(&c.Tools.FFprobe, defaults.FFprobe)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
