package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"backend/internal/models"
)

func TestRowToProductDefensiveParse(t *testing.T) {
	row := ProductRow{
		ID:              "abc",
		Name:            "FlexPro PU",
		Features:        "not-json",
		Specifications:  "{broken",
		Names:           "[1,2]",
		RelatedProducts: "also not json",
	}

	p := rowToProduct(row)

	if p.Features == nil || len(p.Features) != 0 {
		t.Fatalf("expected empty features, got %v", p.Features)
	}
	if p.Specifications == nil || len(p.Specifications) != 0 {
		t.Fatalf("expected empty specifications, got %v", p.Specifications)
	}
	if p.Names == nil || len(p.Names) != 0 {
		t.Fatalf("expected empty names, got %v", p.Names)
	}
	if p.RelatedProducts == nil || len(p.RelatedProducts) != 0 {
		t.Fatalf("expected empty related products, got %v", p.RelatedProducts)
	}
}

func TestRowToProductDefaults(t *testing.T) {
	p := rowToProduct(ProductRow{ID: "x", Name: "Bare Product"})

	if p.Image != models.PlaceholderImage {
		t.Fatalf("expected placeholder image, got %q", p.Image)
	}
	if p.Price != 0 {
		t.Fatalf("expected price 0, got %v", p.Price)
	}
	if !p.InStock || !p.InStockLegacy {
		t.Fatalf("expected in-stock defaults true, got %v/%v", p.InStock, p.InStockLegacy)
	}
	if !p.IsActive {
		t.Fatal("expected isActive default true")
	}
	if p.DisplayOrder != models.DisplayOrderLast {
		t.Fatalf("expected display order %d, got %d", models.DisplayOrderLast, p.DisplayOrder)
	}
	if p.Category != models.DefaultCategory {
		t.Fatalf("expected category %q, got %q", models.DefaultCategory, p.Category)
	}
	if p.Slug != "bare-product" {
		t.Fatalf("expected slug backfilled, got %q", p.Slug)
	}
}

func TestRowToProductModelSKUFallback(t *testing.T) {
	p := rowToProduct(ProductRow{ID: "x", Name: "A", Model: "M-1"})
	if p.SKU != "M-1" {
		t.Fatalf("expected sku fallback to model, got %q", p.SKU)
	}

	p = rowToProduct(ProductRow{ID: "x", Name: "A", SKU: "S-1"})
	if p.Model != "S-1" {
		t.Fatalf("expected model fallback to sku, got %q", p.Model)
	}
}

func TestProductToRowSerializesFlexibleFields(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := models.Product{
		ID:              "id-1",
		Name:            "FlexPro PU",
		Slug:            "flexpro-pu",
		Features:        []string{"elastic", "paintable"},
		Specifications:  map[string]any{"base": "PU"},
		Names:           map[string]string{"tr": "FlexPro PU Mastik"},
		RelatedProducts: []string{"id-2"},
		CreatedAt:       created,
	}

	row := productToRow(p)

	var features []string
	if err := json.Unmarshal([]byte(row.Features), &features); err != nil {
		t.Fatalf("features not valid json: %v", err)
	}
	if len(features) != 2 || features[0] != "elastic" {
		t.Fatalf("unexpected features %v", features)
	}

	var names map[string]string
	if err := json.Unmarshal([]byte(row.Names), &names); err != nil {
		t.Fatalf("names not valid json: %v", err)
	}
	if names["tr"] != "FlexPro PU Mastik" {
		t.Fatalf("unexpected names %v", names)
	}

	if row.CreatedAt == nil || !row.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at preserved, got %v", row.CreatedAt)
	}

	back := rowToProduct(row)
	if len(back.Features) != 2 || back.Names["tr"] != "FlexPro PU Mastik" {
		t.Fatalf("round trip lost fields: %+v", back)
	}
}

func TestRowToProductStockMirror(t *testing.T) {
	inStock := false
	p := rowToProduct(ProductRow{ID: "x", Name: "A", InStock: &inStock})
	if p.InStock || p.InStockLegacy {
		t.Fatalf("expected both stock flags false, got %v/%v", p.InStock, p.InStockLegacy)
	}
}
