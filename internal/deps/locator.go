package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DirLocator prefers executables found in Dir and falls back to PATH. It lets
// a bundled toolchain shadow system binaries without touching PATH.
type DirLocator struct {
	Dir string
}

func (l DirLocator) LookPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty command", ErrMissingTool)
	}
	if dir := strings.TrimSpace(l.Dir); dir != "" && !strings.ContainsRune(name, filepath.Separator) {
		candidate := filepath.Join(dir, executableName(name))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	return exec.LookPath(name)
}

// NewLocator returns a DirLocator for dir, or a PathLocator when dir is empty.
func NewLocator(dir string) Locator {
	if strings.TrimSpace(dir) == "" {
		return PathLocator{}
	}
	return DirLocator{Dir: dir}
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
