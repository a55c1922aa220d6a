package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the wardrobe section a piece belongs to
type Category string

const (
	CategoryTops        Category = "Tops"
	CategoryBottoms     Category = "Bottoms"
	CategoryOuterwear   Category = "Outerwear"
	CategoryShoes       Category = "Shoes"
	CategoryAccessories Category = "Accessories"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryTops,
		CategoryBottoms,
		CategoryOuterwear,
		CategoryShoes,
		CategoryAccessories,
	}
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// CatalogItem represents a reusable wardrobe piece
type CatalogItem struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	ImageURL string   `json:"image_url" yaml:"image_url"`
	Brand    string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	IsPublic bool     `json:"is_public" yaml:"is_public"`
}

// PlacedItem is one placement of a catalog item on a canvas
type PlacedItem struct {
	InstanceID    string  `json:"instance_id"`
	CatalogItemID string  `json:"catalog_item_id"`
	Scale         float64 `json:"scale"`
	ZOrder        int64   `json:"z_order"`
}

// OutfitItem is a placed item resolved to its catalog data
type OutfitItem struct {
	InstanceID string      `json:"instance_id" yaml:"instance_id"`
	Item       CatalogItem `json:"item" yaml:"item"`
	Scale      float64     `json:"scale" yaml:"scale"`
	ZOrder     int64       `json:"z_order" yaml:"z_order"`
}

// Outfit represents a saved canvas arrangement. Items are bottom-to-top.
type Outfit struct {
	ID            string       `json:"id" yaml:"id"`
	SubmissionID  string       `json:"submission_id" yaml:"submission_id"`
	Name          string       `json:"name" yaml:"name"`
	CreatorHandle string       `json:"creator_handle" yaml:"creator_handle"`
	Items         []OutfitItem `json:"items" yaml:"items"`
	CreatedAt     time.Time    `json:"created_at" yaml:"created_at"`
}
