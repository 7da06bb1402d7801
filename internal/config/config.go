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

	"cuekit/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	OutputDir string `toml:"output_dir"`
	WatchDir  string `toml:"watch_dir"`
}

// Encoder holds the command-line options passed to one encoder.
type Encoder struct {
	Options string `toml:"options"`
}

// Encoders contains per-format encoder options. An empty value selects the
// built-in default for that format.
type Encoders struct {
	FLAC Encoder `toml:"flac"`
	Ogg  Encoder `toml:"ogg"`
	Opus Encoder `toml:"opus"`
	MP3  Encoder `toml:"mp3"`
}

// Split contains defaults for image splitting.
type Split struct {
	Format  string `toml:"format"`
	Policy  string `toml:"policy"`
	Prefix  string `toml:"prefix"`
	Rename  bool   `toml:"rename"`
	Quiet   bool   `toml:"quiet"`
	NotCDDA bool   `toml:"not_cdda"`
}

// Cuesheet contains cuesheet reading options.
type Cuesheet struct {
	// Charset is a WHATWG encoding label or "auto".
	Charset string `toml:"charset"`
}

// Tools names the external helper programs.
type Tools struct {
	Dir      string `toml:"dir"`
	Shnsplit string `toml:"shnsplit"`
	Shnlen   string `toml:"shnlen"`
	Shnhash  string `toml:"shnhash"`
	FFmpeg   string `toml:"ffmpeg"`
	FFprobe  string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File enables a copy of every log line in <state_dir>/cuekit.log.
	File bool `toml:"file"`
}

// Watch contains configuration for the directory watcher.
type Watch struct {
	SettleSeconds int `toml:"settle_seconds"`
}

// Config encapsulates all configuration values for cuekit.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Encoders Encoders `toml:"encoders"`
	Split    Split    `toml:"split"`
	Cuesheet Cuesheet `toml:"cuesheet"`
	Tools    Tools    `toml:"tools"`
	Logging  Logging  `toml:"logging"`
	Watch    Watch    `toml:"watch"`
}

const defaultConfigPath = "~/.config/cuekit/config.toml"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// overrides, including those from a .env file in the working directory, are
// applied after the file is decoded.
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

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}
	cfg.applyEnv()

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
		expanded, err := expandPath(path)
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cuekit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when configured, the
// output directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the conversion history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the location of the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "cuekit.log")
}

// WatchLockPath returns the lock file guarding the watcher.
func (c *Config) WatchLockPath() string {
	return filepath.Join(c.Paths.StateDir, "watch.lock")
}

// EncoderOptions returns the configured options for format, falling back to
// the built-in default.
func (c *Config) EncoderOptions(format string) string {
	var enc Encoder
	switch strings.ToLower(format) {
	case "flac":
		enc = c.Encoders.FLAC
	case "ogg":
		enc = c.Encoders.Ogg
	case "opus":
		enc = c.Encoders.Opus
	case "mp3":
		enc = c.Encoders.MP3
	}
	if opts := strings.TrimSpace(enc.Options); opts != "" {
		return opts
	}
	return defaultEncoderOptions[strings.ToLower(format)]
}

// ToolMap returns the helper program names keyed by their default names.
func (c *Config) ToolMap() map[string]string {
	return map[string]string{
		"shnsplit": c.Tools.Shnsplit,
		"shnlen":   c.Tools.Shnlen,
		"shnhash":  c.Tools.Shnhash,
		"ffmpeg":   c.Tools.FFmpeg,
		"ffprobe":  c.Tools.FFprobe,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
