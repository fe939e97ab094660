package catalog

import (
	_ "embed"
	"encoding/json"
	"log"

	"backend/internal/models"
)

//go:embed data/products.json
var snapshotData []byte

// BundledSnapshot returns the static fallback catalog shipped with the
// binary. The data is already in the unified shape and is never written
// back; each call returns a fresh slice so callers cannot alias it.
func BundledSnapshot() []models.Product {
	var products []models.Product
	if err := json.Unmarshal(snapshotData, &products); err != nil {
		// Bundled data is authored with the binary; a parse failure here is
		// a build defect, and an empty catalog keeps reads total.
		log.Printf("catalog: bundled snapshot unreadable: %v", err)
		return []models.Product{}
	}
	return products
}
