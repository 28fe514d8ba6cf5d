package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Cache stores entity previews on disk, one JSON file per entity. Has is
// a pure existence check so callers can ask "is a preview available"
// without regenerating anything.
type Cache struct {
	dir string
}

// NewCache returns a preview cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Has reports whether a preview exists for the named entity.
func (c *Cache) Has(name string) bool {
	_, err := os.Stat(c.path(name))
	return err == nil
}

// Put writes a preview for the named entity.
func (c *Cache) Put(name string, ds *entity.Dataset) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preview for %s: %w", name, err)
	}
	if err := os.WriteFile(c.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write preview for %s: %w", name, err)
	}
	return nil
}

// Get reads a stored preview for the named entity.
func (c *Cache) Get(name string) (*entity.Dataset, error) {
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		return nil, fmt.Errorf("no preview for %s: %w", name, err)
	}
	var ds entity.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode preview for %s: %w", name, err)
	}
	return &ds, nil
}

// Invalidate removes a stored preview. Missing previews are not an error.
func (c *Cache) Invalidate(name string) error {
	err := os.Remove(c.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.dir, name+".json")
}
