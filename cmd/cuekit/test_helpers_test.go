package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cuekit/internal/config"
	"cuekit/internal/testsupport"
)

// shnsplitStub writes one segment per point read from stdin, plus one, in
// the -d directory using the -a prefix.
const shnsplitStub = `prefix=track
dir=.
while [ $# -gt 0 ]; do
  case "$1" in
    -a) prefix="$2"; shift 2 ;;
    -d) dir="$2"; shift 2 ;;
    -o) shift 2 ;;
    *) shift ;;
  esac
done
n=1
while read -r line; do n=$((n+1)); done
i=1
while [ $i -le $n ]; do
  printf 'segment' > "$(printf '%s/%s%02d.flac' "$dir" "$prefix" "$i")"
  i=$((i+1))
done`

// ffmpegStub copies the input (fifth argument) to the output (last one).
const ffmpegStub = `out=""
for a in "$@"; do out="$a"; done
cp "$5" "$out"`

const shnlenStub = `echo "10:00.00   105840044 B   ---   --   ---xx   $2"`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	albumDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithStubScript("shnsplit", shnsplitStub),
		testsupport.WithStubScript("shnlen", shnlenStub),
		testsupport.WithStubScript("shnhash", `echo "0123456789abcdef0123456789abcdef  [shnhash] $1"`),
		testsupport.WithStubScript("ffmpeg", ffmpegStub),
	)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "cuekit", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	albumDir := filepath.Join(base, "album")
	testsupport.WriteAlbum(t, albumDir, "album", testsupport.ThreeTracks)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		albumDir:   albumDir,
	}
}

func (e *cliTestEnv) cue() string {
	return filepath.Join(e.albumDir, "album.cue")
}

func (e *cliTestEnv) media() string {
	return filepath.Join(e.albumDir, "album.flac")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
