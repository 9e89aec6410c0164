package app

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Catalog selects which bundled apps the kiosk offers and where their
// content lives.
type Catalog struct {
	ContentRoot string         `yaml:"content_root"`
	Apps        []CatalogEntry `yaml:"apps"`
}

// CatalogEntry enables one app.
type CatalogEntry struct {
	Name     string `yaml:"name"`
	Content  string `yaml:"content"`  // directory under ContentRoot
	Disabled bool   `yaml:"disabled"` // keep the entry but do not offer it
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Apps))
	for i, e := range c.Apps {
		if e.Name == "" {
			return nil, fmt.Errorf("parse catalog: entry %d has no name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("parse catalog: %w: %s", ErrDuplicateApp, e.Name)
		}
		seen[e.Name] = true
	}
	return &c, nil
}

// DefaultCatalog enables every name with content under a directory of the
// same name.
func DefaultCatalog(root string, names ...string) *Catalog {
	c := &Catalog{ContentRoot: root}
	for _, n := range names {
		c.Apps = append(c.Apps, CatalogEntry{Name: n, Content: n})
	}
	return c
}

// Enabled returns the entries that are not disabled, in file order.
func (c *Catalog) Enabled() []CatalogEntry {
	var out []CatalogEntry
	for _, e := range c.Apps {
		if !e.Disabled {
			out = append(out, e)
		}
	}
	return out
}

// RegisterCatalog registers every enabled catalog entry using factories,
// keyed by entry name.
func RegisterCatalog(r *Registry, c *Catalog, factories map[string]Factory) error {
	for _, e := range c.Enabled() {
		f, ok := factories[e.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownApp, e.Name)
		}
		content := e.Content
		if content == "" {
			content = e.Name
		}
		if err := r.Register(e.Name, content, f); err != nil {
			return err
		}
	}
	return nil
}
