// Package catalog holds the read-only wardrobe catalog that canvas items are
// placed from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wardrobehub/wardrobehub/internal/models"
)

// ErrItemNotFound is returned by Get for unknown ids.
var ErrItemNotFound = errors.New("catalog item not found")

// AllCategories disables category filtering.
const AllCategories = "All"

// Filter narrows a catalog listing
type Filter struct {
	Category string
	Search   string
}

// Catalog is an immutable, ordered set of items
type Catalog struct {
	items []models.CatalogItem
	byID  map[string]int
}

// New builds a catalog, rejecting duplicate ids, empty names and unknown
// categories.
func New(items []models.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.CatalogItem, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for i, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return nil, fmt.Errorf("item %d: id is required", i)
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("item %s: name is required", item.ID)
		}
		category, err := models.ParseCategory(string(item.Category))
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		item.Category = category
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id: %s", item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Get returns the item with the given id.
func (c *Catalog) Get(_ context.Context, id string) (models.CatalogItem, error) {
	idx, ok := c.byID[id]
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return c.items[idx], nil
}

// List returns items matching the filter in catalog order. An empty or "All"
// category matches everything; Search is a case-insensitive name substring.
func (c *Catalog) List(f Filter) ([]models.CatalogItem, error) {
	var category models.Category
	if f.Category != "" && !strings.EqualFold(f.Category, AllCategories) {
		parsed, err := models.ParseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.CatalogItem, 0, len(c.items))
	for _, item := range c.items {
		if category != "" && item.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Categories returns the filter choices in display order, starting with All.
func Categories() []string {
	out := []string{AllCategories}
	for _, c := range models.Categories() {
		out = append(out, string(c))
	}
	return out
}

// Default returns the built-in starter wardrobe.
func Default() *Catalog {
	c, err := New([]models.CatalogItem{
		{ID: "1", Name: "Cotton Boxy Tee", Category: models.CategoryTops, ImageURL: "https://picsum.photos/seed/shirt1/400/500", IsPublic: true},
		{ID: "2", Name: "Raw Denim Jeans", Category: models.CategoryBottoms, ImageURL: "https://picsum.photos/seed/jeans1/400/500", IsPublic: true},
		{ID: "3", Name: "Wool Overcoat", Category: models.CategoryOuterwear, ImageURL: "https://picsum.photos/seed/coat1/400/500", IsPublic: true},
		{ID: "4", Name: "Leather Chelsea Boots", Category: models.CategoryShoes, ImageURL: "https://picsum.photos/seed/shoes1/400/500", IsPublic: true},
		{ID: "5", Name: "Linen Button Down", Category: models.CategoryTops, ImageURL: "https://picsum.photos/seed/shirt2/400/500", IsPublic: true},
		{ID: "6", Name: "Tailored Trousers", Category: models.CategoryBottoms, ImageURL: "https://picsum.photos/seed/pant1/400/500", IsPublic: true},
		{ID: "7", Name: "Cashmere Scarf", Category: models.CategoryAccessories, ImageURL: "https://picsum.photos/seed/scarf1/400/500", IsPublic: true},
		{ID: "8", Name: "Canvas Tote Bag", Category: models.CategoryAccessories, ImageURL: "https://picsum.photos/seed/bag1/400/500", IsPublic: true},
	})
	if err != nil {
		panic(err)
	}
	return c
}
