// Package export writes saved outfits in the formats offered by the canvas
// "Export" action.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatParquet = "parquet"
)

// Formats lists the supported formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatParquet}
}

// ContentType returns the HTTP content type for a format.
func ContentType(format string) string {
	switch format {
	case FormatYAML:
		return "application/yaml"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/json"
	}
}

// Row is one outfit piece flattened for columnar export
type Row struct {
	OutfitID      string  `parquet:"outfit_id"`
	OutfitName    string  `parquet:"outfit_name"`
	CreatorHandle string  `parquet:"creator_handle"`
	CreatedAtMs   int64   `parquet:"created_at_ms"`
	Position      int32   `parquet:"position"`
	InstanceID    string  `parquet:"instance_id"`
	CatalogItemID string  `parquet:"catalog_item_id"`
	ItemName      string  `parquet:"item_name"`
	Category      string  `parquet:"category"`
	ImageURL      string  `parquet:"image_url"`
	Brand         string  `parquet:"brand"`
	Scale         float64 `parquet:"scale"`
	ZOrder        int64   `parquet:"z_order"`
}

// Rows flattens outfits into one row per piece, bottom-to-top within each
// outfit.
func Rows(outfits []models.Outfit) []Row {
	var rows []Row
	for _, o := range outfits {
		for i, item := range o.Items {
			rows = append(rows, Row{
				OutfitID:      o.ID,
				OutfitName:    o.Name,
				CreatorHandle: o.CreatorHandle,
				CreatedAtMs:   o.CreatedAt.UTC().UnixMilli(),
				Position:      int32(i),
				InstanceID:    item.InstanceID,
				CatalogItemID: item.Item.ID,
				ItemName:      item.Item.Name,
				Category:      string(item.Item.Category),
				ImageURL:      item.Item.ImageURL,
				Brand:         item.Item.Brand,
				Scale:         item.Scale,
				ZOrder:        item.ZOrder,
			})
		}
	}
	return rows
}

// Write encodes outfits to w in the given format.
func Write(w io.Writer, format string, outfits []models.Outfit) error {
	if outfits == nil {
		outfits = []models.Outfit{}
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outfits); err != nil {
			return fmt.Errorf("failed to encode JSON export: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outfits); err != nil {
			return fmt.Errorf("failed to encode YAML export: %w", err)
		}
		return enc.Close()
	case FormatParquet:
		return writeParquet(w, Rows(outfits))
	default:
		return fmt.Errorf("unsupported export format: %s (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

func writeParquet(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet export: %w", err)
	}
	return nil
}
