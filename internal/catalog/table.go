package catalog

import (
	"context"
	"time"
)

// ProductRow is the remote shape of a product record. The four flexible
// fields (features, specifications, names, related_products) are stored as
// JSON-encoded text; nullable scalars are pointers so missing values can be
// told apart from zero values.
type ProductRow struct {
	ID              string     `bson:"_id" json:"id"`
	Name            string     `bson:"name" json:"name"`
	Slug            string     `bson:"slug,omitempty" json:"slug,omitempty"`
	Description     string     `bson:"description,omitempty" json:"description,omitempty"`
	Image           *string    `bson:"image,omitempty" json:"image,omitempty"`
	Price           *float64   `bson:"price,omitempty" json:"price,omitempty"`
	Model           string     `bson:"model,omitempty" json:"model,omitempty"`
	SKU             string     `bson:"sku,omitempty" json:"sku,omitempty"`
	InStock         *bool      `bson:"in_stock,omitempty" json:"in_stock,omitempty"`
	Features        string     `bson:"features,omitempty" json:"features,omitempty"`
	Specifications  string     `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Names           string     `bson:"names,omitempty" json:"names,omitempty"`
	RelatedProducts string     `bson:"related_products,omitempty" json:"related_products,omitempty"`
	ShowInFeatured  *bool      `bson:"show_in_featured,omitempty" json:"show_in_featured,omitempty"`
	DisplayOrder    *int       `bson:"display_order,omitempty" json:"display_order,omitempty"`
	Category        string     `bson:"category,omitempty" json:"category,omitempty"`
	IsActive        *bool      `bson:"is_active,omitempty" json:"is_active,omitempty"`
	Tags            []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt       *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// RecordTable is the remote store backing the catalog. Implementations talk
// to the network and may fail; the store treats every call as fallible.
type RecordTable interface {
	// SelectAll returns every row, newest first.
	SelectAll(ctx context.Context) ([]ProductRow, error)
	SelectByID(ctx context.Context, id string) (*ProductRow, error)
	// SelectByName matches the name exactly and may return several rows.
	SelectByName(ctx context.Context, name string) ([]ProductRow, error)
	Insert(ctx context.Context, row ProductRow) error
	InsertMany(ctx context.Context, rows []ProductRow) error
	// UpsertByID replaces the row with the given id, inserting it if absent.
	UpsertByID(ctx context.Context, row ProductRow) error
	// Delete operations return the number of rows removed so callers can
	// tell a clean miss from a hit.
	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	// DeleteByNamePattern removes every row whose name contains the
	// fragment. Last-resort operation: it can over-delete on name collisions.
	DeleteByNamePattern(ctx context.Context, fragment string) (int64, error)
	// DeleteByNameExcept removes rows matching the name exactly while
	// sparing keepID. Used by the id repair, where the doomed row's own id
	// cannot be trusted for a targeted delete.
	DeleteByNameExcept(ctx context.Context, name, keepID string) (int64, error)
}
