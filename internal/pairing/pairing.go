package pairing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuekit/internal/cuesheet"
)

// CueExtension is the cuesheet file extension, matched case-insensitively.
const CueExtension = ".cue"

// mediaPriority lists recognized image extensions; the order breaks ties
// when several images share a cuesheet's stem.
var mediaPriority = []string{".flac", ".ape", ".wv", ".wav"}

// Pair associates a cuesheet with its media image. Either path may be empty
// when no partner exists.
type Pair struct {
	Cue   string `json:"cue"`
	Media string `json:"media"`
}

// Complete reports whether both halves were found.
func (p Pair) Complete() bool {
	return p.Cue != "" && p.Media != ""
}

// MediaExtensions returns the recognized image extensions in priority order.
func MediaExtensions() []string {
	return append([]string(nil), mediaPriority...)
}

// IsMedia reports whether path has a recognized image extension.
func IsMedia(path string) bool {
	return mediaRank(filepath.Ext(path)) >= 0
}

// IsCue reports whether path has the cuesheet extension.
func IsCue(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CueExtension)
}

func mediaRank(ext string) int {
	ext = strings.ToLower(ext)
	for i, candidate := range mediaPriority {
		if ext == candidate {
			return i
		}
	}
	return -1
}

// Resolve finds the partner of path in its directory by matching stems.
// Only the directory listing is consulted; candidate files are not opened.
// Classification and the sibling search use path as given, so a symlinked
// cuesheet pairs with the image next to the link. Returned paths have their
// symlinks resolved.
func Resolve(path string) (Pair, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Pair{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return Pair{}, fmt.Errorf("pair %q: %w", path, err)
	}

	switch {
	case IsCue(abs):
		media, err := findMedia(abs)
		if err != nil {
			return Pair{}, err
		}
		return Pair{Cue: realPath(abs), Media: realPath(media)}, nil
	case IsMedia(abs):
		cue, err := findCue(abs)
		if err != nil {
			return Pair{}, err
		}
		return Pair{Cue: realPath(cue), Media: realPath(abs)}, nil
	default:
		return Pair{}, fmt.Errorf("%w: %s", cuesheet.ErrUnsupportedFile, filepath.Base(abs))
	}
}

// CueFor returns the cuesheet that belongs to path in path's own directory
// without resolving symlinks. It is empty when a media file has no
// cuesheet yet.
func CueFor(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	switch {
	case IsCue(abs):
		return abs, nil
	case IsMedia(abs):
		return findCue(abs)
	default:
		return "", fmt.Errorf("%w: %s", cuesheet.ErrUnsupportedFile, filepath.Base(abs))
	}
}

// CanonicalPath resolves symlinks in the directory part of path and keeps
// the final name, so a symlinked file stays distinct from its target.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Join(realPath(filepath.Dir(abs)), filepath.Base(abs))
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func listSiblings(path string) (dir string, names []string, err error) {
	dir = filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("list %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return dir, names, nil
}

func findMedia(cuePath string) (string, error) {
	dir, names, err := listSiblings(cuePath)
	if err != nil {
		return "", err
	}
	want := stem(filepath.Base(cuePath))
	best, bestRank := "", len(mediaPriority)
	for _, name := range names {
		if stem(name) != want {
			continue
		}
		rank := mediaRank(filepath.Ext(name))
		if rank < 0 {
			continue
		}
		if rank < bestRank || (rank == bestRank && name < best) {
			best, bestRank = name, rank
		}
	}
	if best == "" {
		return "", nil
	}
	return filepath.Join(dir, best), nil
}

func findCue(mediaPath string) (string, error) {
	dir, names, err := listSiblings(mediaPath)
	if err != nil {
		return "", err
	}
	want := stem(filepath.Base(mediaPath))
	var matches []string
	for _, name := range names {
		if stem(name) == want && IsCue(name) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return filepath.Join(dir, matches[0]), nil
}

func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
