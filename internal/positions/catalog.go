// Package positions holds a catalog of named start positions, loaded from
// embedded defaults and an optional override directory.
package positions

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed positions.yaml
var defaultFiles embed.FS

// Position is one catalog entry: the encoded start position and the dialect
// it is written in.
type Position struct {
	Dialect     string `yaml:"dialect"`
	Description string `yaml:"description"`
	Fen4        string `yaml:"fen4"`
}

// Catalog maps position names to entries. Override files replace embedded
// entries of the same name.
type Catalog struct {
	mu   sync.RWMutex
	data map[string]Position
}

// New loads the embedded default positions and then applies overrides from
// dir if provided.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{data: make(map[string]Position)}
	if err := c.loadEmbedded(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) loadEmbedded() error {
	raw, err := fs.ReadFile(defaultFiles, "positions.yaml")
	if err != nil {
		return fmt.Errorf("read embedded positions: %w", err)
	}
	return c.applyYAML(raw)
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read positions dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	// Guard against the same name landing in two override files
	seen := make(map[string]string)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		var m map[string]Position
		if err := yaml.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range m {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override position %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		c.mu.Lock()
		for k, v := range m {
			c.data[k] = v
		}
		c.mu.Unlock()
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte) error {
	var m map[string]Position
	if err := yaml.Unmarshal(b, &m); err != nil {
		return err
	}
	c.mu.Lock()
	for k, v := range m {
		c.data[k] = v
	}
	c.mu.Unlock()
	return nil
}

// Get returns the entry for a name.
func (c *Catalog) Get(name string) (Position, error) {
	c.mu.RLock()
	p, ok := c.data[strings.TrimSpace(name)]
	c.mu.RUnlock()
	if !ok || strings.TrimSpace(p.Fen4) == "" {
		return Position{}, fmt.Errorf("position not found: %s", name)
	}
	return p, nil
}

// Names lists the catalog entries in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.data))
	for k := range c.data {
		names = append(names, k)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}
