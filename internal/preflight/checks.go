package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"cuekit/internal/config"
	"cuekit/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTools reports the programs a conversion of a mediaExt image into
// format needs. mediaExt may be empty when no image is known yet; the
// decoders are then listed as optional.
func CheckTools(locator deps.Locator, tools map[string]string, format, mediaExt string) []deps.Status {
	var requirements []deps.Requirement
	for _, req := range deps.Catalog(tools) {
		switch {
		case isEncoder(req, format):
			req.Optional = false
		case mediaExt != "" && isDecoder(req, mediaExt):
			req.Optional = false
		}
		requirements = append(requirements, req)
	}
	return deps.CheckBinaries(locator, requirements)
}

// CheckSystemDeps evaluates every external program for the given config.
// Both the converter preflight and the CLI deps command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return CheckTools(deps.NewLocator(cfg.Tools.Dir), cfg.ToolMap(), cfg.Split.Format, "")
}

func isEncoder(req deps.Requirement, format string) bool {
	enc, err := deps.EncoderFor(format)
	return err == nil && enc.Name == req.Name
}

func isDecoder(req deps.Requirement, mediaExt string) bool {
	if !strings.HasPrefix(mediaExt, ".") {
		mediaExt = "." + mediaExt
	}
	dec, ok := deps.DecoderFor(mediaExt)
	return ok && dec.Name == req.Name
}
