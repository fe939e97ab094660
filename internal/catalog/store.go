package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"backend/internal/models"
)

// ErrNotFound is returned when an id or slug matches no record in the cache.
var ErrNotFound = errors.New("product not found")

// ErrInvalid wraps rejected caller input, as opposed to remote failures.
var ErrInvalid = errors.New("invalid product input")

// Store is the single authoritative source of product data for the process.
// It lazily loads an in-memory cache from the record table, falls back to
// the bundled snapshot when the remote load fails, serves every read from
// the cache, and keeps cache and remote together on writes.
//
// One mutex guards both the memoized initialization and the cache, so
// concurrent first callers serialize behind a single remote load instead of
// each issuing one. Mutations hold the lock across the remote call;
// conflicting concurrent writes resolve last-caller-wins.
type Store struct {
	table    RecordTable
	snapshot []models.Product
	events   *Broadcaster

	mu          sync.Mutex
	cache       []models.Product
	initialized bool
}

func NewStore(table RecordTable, snapshot []models.Product, events *Broadcaster) *Store {
	if events == nil {
		events = NewBroadcaster()
	}
	return &Store{table: table, snapshot: snapshot, events: events}
}

// Events exposes the broadcaster mutations publish on.
func (s *Store) Events() *Broadcaster {
	return s.events
}

/* =======================
   INITIALIZATION
======================= */

func (s *Store) ensureLoadedLocked(ctx context.Context) {
	if s.initialized {
		return
	}
	s.cache = s.loadRemoteOrSnapshot(ctx)
	s.initialized = true
}

// loadRemoteOrSnapshot prefers the record table; an empty remote result is
// accepted as-is, only a failed call falls back to the bundled snapshot.
func (s *Store) loadRemoteOrSnapshot(ctx context.Context) []models.Product {
	rows, err := s.table.SelectAll(ctx)
	if err != nil {
		log.Printf("catalog: remote load failed, serving bundled snapshot: %v", err)
		return backfillSlugs(cloneProducts(s.snapshot))
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, rowToProduct(row))
	}
	log.Printf("catalog: loaded %d products from record table", len(products))
	return backfillSlugs(products)
}

// ForceRefresh drops the cache and repeats initialization on next use.
func (s *Store) ForceRefresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.cache = nil
	s.ensureLoadedLocked(ctx)
}

/* =======================
   READS
======================= */

// GetAllProducts returns the full cache. Never fails: once initialized the
// store always has (possibly stale) data to serve.
func (s *Store) GetAllProducts(ctx context.Context) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	return cloneProducts(s.cache)
}

// GetWebsiteProducts returns active records in display order.
func (s *Store) GetWebsiteProducts(ctx context.Context) []models.Product {
	products := s.GetAllProducts(ctx)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sortByDisplayOrder(out)
	return out
}

// GetFeaturedProducts returns active records flagged for the storefront
// carousel, in display order.
func (s *Store) GetFeaturedProducts(ctx context.Context) []models.Product {
	products := s.GetAllProducts(ctx)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive && p.ShowInFeatured {
			out = append(out, p)
		}
	}
	sortByDisplayOrder(out)
	return out
}

// GetAdminProducts returns every record, inactive ones included, newest
// first.
func (s *Store) GetAdminProducts(ctx context.Context) []models.Product {
	products := s.GetAllProducts(ctx)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products
}

func (s *Store) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	for _, p := range s.cache {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	for _, p := range s.cache {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

// SearchProducts matches the query as a case-insensitive substring of name,
// description, category, features and tags. No tokenization, no ranking.
func (s *Store) SearchProducts(ctx context.Context, query string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	products := s.GetAllProducts(ctx)
	out := make([]models.Product, 0)
	for _, p := range products {
		if matchesQuery(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p models.Product, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// GetProductsByCategory returns active records whose category matches
// exactly.
func (s *Store) GetProductsByCategory(ctx context.Context, category string) []models.Product {
	products := s.GetAllProducts(ctx)
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.IsActive && p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// GetCategories returns the deduplicated, alphabetically sorted categories
// present in the cache.
func (s *Store) GetCategories(ctx context.Context) []string {
	products := s.GetAllProducts(ctx)
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, p := range products {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

/* =======================
   WRITES
======================= */

// ProductInput is a partial record for create and update calls. Nil fields
// are "not provided": create fills defaults, update leaves the existing
// value alone.
type ProductInput struct {
	Name            *string            `json:"name"`
	Slug            *string            `json:"slug"`
	Description     *string            `json:"description"`
	Image           *string            `json:"image"`
	Price           *float64           `json:"price"`
	Model           *string            `json:"model"`
	SKU             *string            `json:"sku"`
	InStock         *bool              `json:"inStock"`
	Features        *[]string          `json:"features"`
	Specifications  *map[string]any    `json:"specifications"`
	ShowInFeatured  *bool              `json:"showInFeatured"`
	DisplayOrder    *int               `json:"displayOrder"`
	Category        *string            `json:"category"`
	IsActive        *bool              `json:"isActive"`
	Tags            *[]string          `json:"tags"`
	Names           *map[string]string `json:"names"`
	RelatedProducts *[]string          `json:"related_products"`
}

// AddProduct assigns a canonical id, fills defaults, stamps the creation
// time and inserts into the record table before touching the cache: a failed
// insert leaves the cache unchanged.
func (s *Store) AddProduct(ctx context.Context, input ProductInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	description := ""
	if input.Description != nil {
		description = strings.TrimSpace(*input.Description)
	}
	if description == "" {
		return models.Product{}, fmt.Errorf("%w: description required", ErrInvalid)
	}

	now := time.Now()
	p := models.Product{
		ID:             uuid.NewString(),
		Name:           name,
		Slug:           Slugify(name),
		Description:    description,
		Image:          models.PlaceholderImage,
		Features:       []string{},
		Specifications: map[string]any{},
		DisplayOrder:   len(s.cache) + 1,
		Category:       models.DefaultCategory,
		IsActive:       true,
		DateAdded:      now,
		CreatedAt:      now,
	}
	p.SetInStock(true)

	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		p.Slug = Slugify(*input.Slug)
	}
	applyInput(&p, input)

	if err := s.table.Insert(ctx, productToRow(p)); err != nil {
		log.Printf("catalog: insert failed for %q: %v", p.Name, err)
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}

	s.cache = append(s.cache, p)
	s.events.publish(Event{Type: ProductAdded, Product: p})
	return p, nil
}

// UpdateProduct merges the partial input onto the existing record and
// upserts just that row. The id and creation time are never overwritten and
// the slug is recomputed when the name changes. The cache is only mutated
// after the remote write succeeds, so cache and remote do not diverge on a
// reported failure.
func (s *Store) UpdateProduct(ctx context.Context, id string, input ProductInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	return s.updateLocked(ctx, id, input)
}

func (s *Store) updateLocked(ctx context.Context, id string, input ProductInput) (models.Product, error) {
	idx := -1
	for i := range s.cache {
		if s.cache[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Product{}, ErrNotFound
	}

	updated := s.cache[idx]
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.Product{}, fmt.Errorf("%w: name required", ErrInvalid)
		}
		updated.Name = name
		updated.Slug = Slugify(name)
	}
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		updated.Slug = Slugify(*input.Slug)
	}
	applyInput(&updated, input)

	if err := s.table.UpsertByID(ctx, productToRow(updated)); err != nil {
		log.Printf("catalog: upsert failed for %s: %v", id, err)
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.cache[idx] = updated
	s.events.publish(Event{Type: ProductUpdated, Product: updated})
	return updated, nil
}

// applyInput copies the provided fields onto p. Name and slug are handled by
// the callers, which own the slug recomputation rule.
func applyInput(p *models.Product, input ProductInput) {
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		p.Image = *input.Image
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Model != nil {
		p.Model = strings.TrimSpace(*input.Model)
	}
	if input.SKU != nil {
		p.SKU = strings.TrimSpace(*input.SKU)
	}
	// model and sku fall back to each other when one is blank
	if p.Model == "" {
		p.Model = p.SKU
	}
	if p.SKU == "" {
		p.SKU = p.Model
	}
	if input.InStock != nil {
		p.SetInStock(*input.InStock)
	}
	if input.Features != nil {
		p.Features = *input.Features
	}
	if input.Specifications != nil {
		p.Specifications = *input.Specifications
	}
	if input.ShowInFeatured != nil {
		p.ShowInFeatured = *input.ShowInFeatured
	}
	if input.DisplayOrder != nil {
		p.DisplayOrder = *input.DisplayOrder
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		p.Tags = *input.Tags
	}
	if input.Names != nil {
		p.Names = *input.Names
	}
	if input.RelatedProducts != nil {
		p.RelatedProducts = *input.RelatedProducts
	}
}

// UpdateFeaturedStatus toggles carousel inclusion for one record.
func (s *Store) UpdateFeaturedStatus(ctx context.Context, id string, featured bool) (models.Product, error) {
	return s.UpdateProduct(ctx, id, ProductInput{ShowInFeatured: &featured})
}

// ReorderFeaturedProducts assigns display order 1..n following the given id
// order. Not atomic: a failure partway leaves the records updated so far in
// their new positions.
func (s *Store) ReorderFeaturedProducts(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	for i, id := range orderedIDs {
		order := i + 1
		if _, err := s.updateLocked(ctx, id, ProductInput{DisplayOrder: &order}); err != nil {
			return fmt.Errorf("reorder stopped at position %d (%s): %w", order, id, err)
		}
	}
	return nil
}

/* =======================
   DELETE
======================= */

// deleteStrategy names the escalation steps tried against the record table.
// The escalation is a compatibility shim for rows whose ids predate
// canonical id enforcement; RepairProductIDs exists so it fires less often.
type deleteStrategy int

const (
	deleteByID deleteStrategy = iota
	deleteByExactName
	deleteByLookedUpIDs
	deleteByNamePattern
)

func (d deleteStrategy) String() string {
	switch d {
	case deleteByID:
		return "by-id"
	case deleteByExactName:
		return "by-name"
	case deleteByLookedUpIDs:
		return "by-looked-up-ids"
	case deleteByNamePattern:
		return "by-name-pattern"
	}
	return "unknown"
}

// DeleteProduct removes the record from the cache unconditionally and makes
// a best-effort attempt against the record table, escalating through the
// strategy sequence until one reports a removed row. The admin stops seeing
// the record even when every remote strategy fails; that asymmetry is a
// known limitation, not a bug. A reconciliation read follows the attempt so
// drift in other records is picked up.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	idx := -1
	for i := range s.cache {
		if s.cache[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := s.cache[idx]

	remoteDeleted := s.deleteRemote(ctx, removed)
	if !remoteDeleted {
		log.Printf("catalog: no delete strategy succeeded for %s (%q), cache removal only", id, removed.Name)
	}

	// Reconcile with whatever state remains remotely, then drop the deleted
	// id again so local removal holds no matter what the reload returned.
	s.cache = s.loadRemoteOrSnapshot(ctx)
	kept := s.cache[:0]
	for _, p := range s.cache {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.cache = kept

	s.events.publish(Event{Type: ProductDeleted, Product: removed})
	return nil
}

func (s *Store) deleteRemote(ctx context.Context, p models.Product) bool {
	for _, strategy := range []deleteStrategy{deleteByID, deleteByExactName, deleteByLookedUpIDs, deleteByNamePattern} {
		n, err := s.runDeleteStrategy(ctx, strategy, p)
		if err != nil {
			log.Printf("catalog: delete %s failed for %s: %v", strategy, p.ID, err)
			continue
		}
		if n > 0 {
			log.Printf("catalog: delete %s removed %d row(s) for %s", strategy, n, p.ID)
			return true
		}
	}
	return false
}

func (s *Store) runDeleteStrategy(ctx context.Context, strategy deleteStrategy, p models.Product) (int64, error) {
	switch strategy {
	case deleteByID:
		return s.table.DeleteByID(ctx, p.ID)
	case deleteByExactName:
		return s.table.DeleteByName(ctx, p.Name)
	case deleteByLookedUpIDs:
		rows, err := s.table.SelectByName(ctx, p.Name)
		if err != nil {
			return 0, err
		}
		var total int64
		for _, row := range rows {
			n, err := s.table.DeleteByID(ctx, row.ID)
			if err != nil {
				log.Printf("catalog: delete by looked-up id %s failed: %v", row.ID, err)
				continue
			}
			total += n
		}
		return total, nil
	case deleteByNamePattern:
		return s.table.DeleteByNamePattern(ctx, p.Name)
	}
	return 0, nil
}

/* =======================
   HELPERS
======================= */

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

func backfillSlugs(products []models.Product) []models.Product {
	for i := range products {
		if products[i].Slug == "" {
			products[i].Slug = Slugify(products[i].Name)
		}
	}
	return products
}

func sortByDisplayOrder(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].DisplayOrder < products[j].DisplayOrder
	})
}
