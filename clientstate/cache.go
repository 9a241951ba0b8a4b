package clientstate

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"dukaan/models"
)

// Cache is the durable mirror of the in-memory state, one serialized
// collection per concern.
type Cache interface {
	WriteCart(items []models.CartItem) error
	WriteFavorites(items []models.FavoriteItem) error
	ReadCart() ([]models.CartItem, error)
	ReadFavorites() ([]models.FavoriteItem, error)
}

// FileCache keeps each concern in its own JSON file under dir, the device
// equivalent of browser local storage.
type FileCache struct {
	dir string
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(c.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(c.dir, name))
}

func (c *FileCache) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (c *FileCache) WriteCart(items []models.CartItem) error {
	return c.writeJSON("cart.json", items)
}

func (c *FileCache) WriteFavorites(items []models.FavoriteItem) error {
	return c.writeJSON("favorites.json", items)
}

func (c *FileCache) ReadCart() ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.readJSON("cart.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *FileCache) ReadFavorites() ([]models.FavoriteItem, error) {
	var items []models.FavoriteItem
	if err := c.readJSON("favorites.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}
