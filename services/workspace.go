package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// Workspace is the data directory holding source and derived files.
type Workspace struct {
	Dir string // absolute path to the data directory
}

// NewWorkspace resolves dir to an absolute path.
func NewWorkspace(dir string) (*Workspace, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for %s: %w", dir, err)
	}
	return &Workspace{Dir: absPath}, nil
}

// Resolve maps a user supplied file name to a path inside the workspace.
// Names that would escape it (e.g. "../../etc/passwd") are rejected.
func (w *Workspace) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidFilename)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	cleanPath := filepath.Join(w.Dir, filepath.Clean(name))
	if cleanPath != w.Dir && !strings.HasPrefix(cleanPath, w.Dir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s attempts to escape the data directory", ErrInvalidFilename, name)
	}
	return cleanPath, nil
}

// Exists reports whether name exists inside the workspace.
func (w *Workspace) Exists(name string) bool {
	path, err := w.Resolve(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// List returns the sorted names of regular files in the workspace root whose
// extension matches one of exts (case-insensitive).
func (w *Workspace) List(exts ...string) ([]string, error) {
	return listFiles(w.Dir, exts...)
}

// SafeFileName reduces s to letters, digits, hyphens and single
// underscores so it can be embedded in a file name.
func SafeFileName(s string) string {
	clean := strings.Trim(unsafeNameChars.ReplaceAllString(s, "_"), "_")
	if clean == "" {
		return "query"
	}
	return clean
}

func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				names = append(names, e.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
