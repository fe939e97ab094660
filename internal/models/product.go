package models

import "time"

// PlaceholderImage is stored when a product has no image of its own.
const PlaceholderImage = "/images/placeholder-product.jpg"

// DisplayOrderLast is assigned to records without an explicit display order
// so they sort after everything that was ordered on purpose.
const DisplayOrderLast = 9999

// DefaultCategory is the bucket for products created without a category.
const DefaultCategory = "Others"

// Product is the unified catalog record served to both the storefront and
// the admin console. The remote store keeps a different shape; conversion
// between the two lives in internal/catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Model       string  `json:"model,omitempty"`
	SKU         string  `json:"sku,omitempty"`

	// InStock and InStockLegacy carry the same flag under both attribute
	// names; older storefront builds read the snake_case one.
	InStock       bool `json:"inStock"`
	InStockLegacy bool `json:"in_stock"`

	Features       []string       `json:"features"`
	Specifications map[string]any `json:"specifications"`

	ShowInFeatured bool   `json:"showInFeatured"`
	DisplayOrder   int    `json:"displayOrder"`
	Category       string `json:"category"`
	IsActive       bool   `json:"isActive"`

	Tags []string `json:"tags,omitempty"`

	// Names holds per-locale overrides: plain locale codes override the name,
	// "<locale>_description" keys override the description.
	Names map[string]string `json:"names,omitempty"`

	// RelatedProducts holds ids of other records. The references are weak:
	// a dangling id is tolerated and filtered out by consumers.
	RelatedProducts []string `json:"related_products,omitempty"`

	DateAdded time.Time `json:"dateAdded"`
	CreatedAt time.Time `json:"created_at"`
}

// SetInStock keeps both stock attribute names in sync.
func (p *Product) SetInStock(v bool) {
	p.InStock = v
	p.InStockLegacy = v
}

// LocalizedName returns the per-locale name override, or the default name.
func (p *Product) LocalizedName(locale string) string {
	if v, ok := p.Names[locale]; ok && v != "" {
		return v
	}
	return p.Name
}

// LocalizedDescription returns the per-locale description override, or the
// default description. Override keys follow the "<locale>_description"
// convention.
func (p *Product) LocalizedDescription(locale string) string {
	if v, ok := p.Names[locale+"_description"]; ok && v != "" {
		return v
	}
	return p.Description
}
