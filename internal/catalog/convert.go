package catalog

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"backend/internal/models"
)

/* =======================
   REMOTE → UNIFIED
======================= */

// rowToProduct maps a raw remote row onto the unified record. This is the
// only place untyped remote data is touched: text-encoded JSON fields parse
// defensively to empty values, nullable scalars get their defaults, and the
// stock flag is mirrored under both attribute names. Malformed ids pass
// through unchanged; RepairProductIDs deals with those.
func rowToProduct(row ProductRow) models.Product {
	p := models.Product{
		ID:              row.ID,
		Name:            row.Name,
		Slug:            row.Slug,
		Description:     row.Description,
		Image:           models.PlaceholderImage,
		Model:           row.Model,
		SKU:             row.SKU,
		Features:        parseStringList(row.ID, "features", row.Features),
		Specifications:  parseAnyMap(row.ID, "specifications", row.Specifications),
		Names:           parseStringMap(row.ID, "names", row.Names),
		RelatedProducts: parseStringList(row.ID, "related_products", row.RelatedProducts),
		DisplayOrder:    models.DisplayOrderLast,
		Category:        models.DefaultCategory,
		IsActive:        true,
		Tags:            row.Tags,
	}

	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if row.Image != nil && strings.TrimSpace(*row.Image) != "" {
		p.Image = *row.Image
	}
	if row.Price != nil {
		p.Price = *row.Price
	}

	// model and sku fall back to each other when one is blank
	if p.Model == "" {
		p.Model = p.SKU
	}
	if p.SKU == "" {
		p.SKU = p.Model
	}

	inStock := true
	if row.InStock != nil {
		inStock = *row.InStock
	}
	p.SetInStock(inStock)

	if row.ShowInFeatured != nil {
		p.ShowInFeatured = *row.ShowInFeatured
	}
	if row.DisplayOrder != nil {
		p.DisplayOrder = *row.DisplayOrder
	}
	if strings.TrimSpace(row.Category) != "" {
		p.Category = row.Category
	}
	if row.IsActive != nil {
		p.IsActive = *row.IsActive
	}
	if row.CreatedAt != nil {
		p.CreatedAt = *row.CreatedAt
		p.DateAdded = *row.CreatedAt
	}

	return p
}

/* =======================
   UNIFIED → REMOTE
======================= */

// productToRow serializes the flexible fields back to JSON text for the
// remote store. The inverse of rowToProduct.
func productToRow(p models.Product) ProductRow {
	row := ProductRow{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Model:           p.Model,
		SKU:             p.SKU,
		Features:        encodeJSONText(p.Features),
		Specifications:  encodeJSONText(p.Specifications),
		Names:           encodeJSONText(p.Names),
		RelatedProducts: encodeJSONText(p.RelatedProducts),
		Category:        p.Category,
		Tags:            p.Tags,
	}

	image := p.Image
	price := p.Price
	inStock := p.InStock
	featured := p.ShowInFeatured
	order := p.DisplayOrder
	active := p.IsActive
	row.Image = &image
	row.Price = &price
	row.InStock = &inStock
	row.ShowInFeatured = &featured
	row.DisplayOrder = &order
	row.IsActive = &active

	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		row.CreatedAt = &created
	} else if !p.DateAdded.IsZero() {
		created := p.DateAdded
		row.CreatedAt = &created
	} else {
		created := time.Now()
		row.CreatedAt = &created
	}

	return row
}

/* =======================
   DEFENSIVE PARSING
======================= */

func parseStringList(id, field, raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("catalog: product %s has malformed %s, using empty list: %v", id, field, err)
		return []string{}
	}
	return out
}

func parseStringMap(id, field, raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}
	}
	out := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("catalog: product %s has malformed %s, using empty map: %v", id, field, err)
		return map[string]string{}
	}
	return out
}

func parseAnyMap(id, field, raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("catalog: product %s has malformed %s, using empty map: %v", id, field, err)
		return map[string]any{}
	}
	return out
}

func encodeJSONText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
