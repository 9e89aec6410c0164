package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ContentLoader resolves content paths against an app's own directory.
type ContentLoader struct {
	root string
}

// NewContentLoader creates a loader rooted at dir.
func NewContentLoader(dir string) *ContentLoader {
	return &ContentLoader{root: filepath.Clean(dir)}
}

// Root returns the content directory.
func (c *ContentLoader) Root() string { return c.root }

// Path resolves name inside the content directory.
func (c *ContentLoader) Path(name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrContentPath, name)
	}
	p := filepath.Join(c.root, name)
	rel, err := filepath.Rel(c.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrContentPath, name)
	}
	return p, nil
}

// ReadFile reads a content file.
func (c *ContentLoader) ReadFile(name string) ([]byte, error) {
	p, err := c.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// List returns the sorted paths of regular files in dir whose extension
// matches one of exts (case-insensitive). No exts matches everything.
func (c *ContentLoader) List(dir string, exts ...string) ([]string, error) {
	base, err := c.Path(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if len(exts) > 0 && !hasExt(e.Name(), exts) {
			continue
		}
		out = append(out, filepath.Join(base, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
