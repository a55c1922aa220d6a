package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wardrobehub/wardrobehub/internal/models"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk catalog layout
type seedFile struct {
	Items []models.CatalogItem `json:"items" yaml:"items"`
}

// LoadFile loads a catalog from a YAML (.yaml, .yml) or JSON (.json) file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var seed seedFile
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (supported: .yaml, .yml, .json)", ext)
	}

	c, err := New(seed.Items)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	slog.Debug("Catalog loaded", "path", path, "items", c.Len())
	return c, nil
}

// Load picks the catalog source: a remote URL wins over a seed file, and the
// built-in wardrobe is used when neither is set.
func Load(ctx context.Context, path, url, apiKey string) (*Catalog, error) {
	switch {
	case url != "":
		slog.Info("Fetching remote catalog", "url", url)
		return NewClient(url, apiKey).Fetch(ctx)
	case path != "":
		return LoadFile(path)
	default:
		return Default(), nil
	}
}
