package catalog

import (
	"context"
	"testing"
)

func TestIsCanonicalID(t *testing.T) {
	if !isCanonicalID("0d2f0a9e-7b1c-4d7a-9a61-2f8c6d7e4b10") {
		t.Fatal("expected hyphenated uuid to be canonical")
	}
	for _, id := range []string{"", "123", "product-7", "0d2f0a9e7b1c4d7a9a612f8c6d7e4b10"} {
		if isCanonicalID(id) {
			t.Fatalf("expected %q to be non-canonical", id)
		}
	}
}

func TestRepairRewritesMalformedIDs(t *testing.T) {
	table := &fakeTable{rows: []ProductRow{
		row("7", "Legacy Product"),
		row("0d2f0a9e-7b1c-4d7a-9a61-2f8c6d7e4b10", "Healthy Product"),
	}}
	store := newTestStore(table, nil)

	repaired, err := store.RepairProductIDs(context.Background())
	if err != nil {
		t.Fatalf("RepairProductIDs returned error: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("expected 1 repair, got %d", repaired)
	}

	if len(table.rows) != 2 {
		t.Fatalf("expected 2 rows after repair, got %d", len(table.rows))
	}
	for _, r := range table.rows {
		if !isCanonicalID(r.ID) {
			t.Fatalf("expected only canonical ids after repair, found %q", r.ID)
		}
	}

	// the healthy row keeps its id
	found := false
	for _, r := range table.rows {
		if r.ID == "0d2f0a9e-7b1c-4d7a-9a61-2f8c6d7e4b10" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the healthy row to keep its id")
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	table := &fakeTable{rows: []ProductRow{
		row("legacy-a", "Product A"),
		row("legacy b", "Product B"),
	}}
	store := newTestStore(table, nil)

	if _, err := store.RepairProductIDs(context.Background()); err != nil {
		t.Fatalf("first repair returned error: %v", err)
	}

	idsAfterFirst := map[string]bool{}
	for _, r := range table.rows {
		idsAfterFirst[r.ID] = true
	}

	repaired, err := store.RepairProductIDs(context.Background())
	if err != nil {
		t.Fatalf("second repair returned error: %v", err)
	}
	if repaired != 0 {
		t.Fatalf("expected no-op second run, got %d repairs", repaired)
	}
	for _, r := range table.rows {
		if !idsAfterFirst[r.ID] {
			t.Fatalf("second run changed id %q", r.ID)
		}
	}
}

func TestRepairRefreshesCache(t *testing.T) {
	table := &fakeTable{rows: []ProductRow{row("bad id", "Needs Repair")}}
	store := newTestStore(table, nil)
	store.GetAllProducts(context.Background())

	if _, err := store.RepairProductIDs(context.Background()); err != nil {
		t.Fatalf("RepairProductIDs returned error: %v", err)
	}

	products := store.GetAllProducts(context.Background())
	if len(products) != 1 {
		t.Fatalf("expected 1 product after repair, got %d", len(products))
	}
	if !isCanonicalID(products[0].ID) {
		t.Fatalf("expected cache to carry the repaired id, got %q", products[0].ID)
	}
}
