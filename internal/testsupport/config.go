package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cuekit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.WatchDir = filepath.Join(base, "watch")
	cfgVal.Split.Quiet = true

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithFormat selects the output format.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Format = format
	}
}

// WithPolicy selects the split policy.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Policy = policy
	}
}

// DefaultStubs are the helper programs a full split run may invoke.
var DefaultStubs = []string{"shnsplit", "shnlen", "shnhash", "ffmpeg", "ffprobe", "flac", "oggenc", "opusenc", "lame", "mac", "wvunpack"}

// WithStubbedBinaries writes no-op executables for the provided names into
// the tools directory and prepends it to PATH. If names is empty,
// DefaultStubs are written.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = DefaultStubs
		}
		for _, name := range names {
			b.writeStub(name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithStubScript installs a stub executable with a custom shell body.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		b.writeStub(name, "#!/bin/sh\n"+body+"\n")
	}
}

func (b *configBuilder) writeStub(name, script string) {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	if b.cfg.Tools.Dir != binDir {
		b.cfg.Tools.Dir = binDir
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
