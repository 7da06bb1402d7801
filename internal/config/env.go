package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvStateDir  = "CUEKIT_STATE_DIR"
	EnvOutputDir = "CUEKIT_OUTPUT_DIR"
	EnvWatchDir  = "CUEKIT_WATCH_DIR"
	EnvFormat    = "CUEKIT_FORMAT"
	EnvPolicy    = "CUEKIT_POLICY"
	EnvCharset   = "CUEKIT_CHARSET"
	EnvLogLevel  = "CUEKIT_LOG_LEVEL"
	EnvLogFormat = "CUEKIT_LOG_FORMAT"
	EnvSettle    = "CUEKIT_WATCH_SETTLE_SECONDS"
)

// dotEnvFile is read from the working directory. Variables already present
// in the environment win over the file.
var dotEnvFile = ".env"

func loadDotEnv() error {
	if _, err := os.Stat(dotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", dotEnvFile, err)
	}
	if err := godotenv.Load(dotEnvFile); err != nil {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(key string, target *string) {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	set(EnvStateDir, &c.Paths.StateDir)
	set(EnvOutputDir, &c.Paths.OutputDir)
	set(EnvWatchDir, &c.Paths.WatchDir)
	set(EnvFormat, &c.Split.Format)
	set(EnvPolicy, &c.Split.Policy)
	set(EnvCharset, &c.Cuesheet.Charset)
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvLogFormat, &c.Logging.Format)
	if value, ok := os.LookupEnv(EnvSettle); ok {
		if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			c.Watch.SettleSeconds = seconds
		}
	}
}
