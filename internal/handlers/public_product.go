package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
	"backend/internal/models"
)

/*
GET /products
  - active products in display order
  - optional filters: search (substring), category (repeatable, matches any),
    locale (applies per-locale name/description overrides)
*/
func GetProducts(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit search=%s category=%v locale=%s",
			route,
			c.Query("search"),
			c.QueryArray("category"),
			c.Query("locale"),
		)

		products := store.GetWebsiteProducts(c.Request.Context())

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			matched := map[string]struct{}{}
			for _, p := range store.SearchProducts(c.Request.Context(), search) {
				matched[p.ID] = struct{}{}
			}
			products = keepMatching(products, func(p models.Product) bool {
				_, ok := matched[p.ID]
				return ok
			})
		}

		if categories := trimmedQueryValues(c.QueryArray("category")); len(categories) > 0 {
			products = keepMatching(products, func(p models.Product) bool {
				for _, category := range categories {
					if p.Category == category {
						return true
					}
				}
				return false
			})
		}

		if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
			products = localizeProducts(products, locale)
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

/*
GET /products/featured
- active + featured, in display order
*/
func GetFeaturedProducts(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured"
		defer handlePanic(c, route)

		products := store.GetFeaturedProducts(c.Request.Context())
		if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
			products = localizeProducts(products, locale)
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

/*
GET /products/:slug
*/
func GetProductBySlug(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:slug"
		defer handlePanic(c, route)

		slug := strings.TrimSpace(c.Param("slug"))
		product, err := store.GetProductBySlug(c.Request.Context(), slug)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
			product.Name = product.LocalizedName(locale)
			product.Description = product.LocalizedDescription(locale)
		}

		// related_products are weak references; drop ids that no longer
		// resolve so the storefront never renders a dangling link
		related := make([]string, 0, len(product.RelatedProducts))
		for _, id := range product.RelatedProducts {
			if _, err := store.GetProductByID(c.Request.Context(), id); err == nil {
				related = append(related, id)
			}
		}
		product.RelatedProducts = related

		c.JSON(http.StatusOK, product)
	}
}

/*
GET /categories
*/
func GetCategories(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		categories := store.GetCategories(c.Request.Context())
		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

func keepMatching(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func trimmedQueryValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func localizeProducts(products []models.Product, locale string) []models.Product {
	for i := range products {
		products[i].Name = products[i].LocalizedName(locale)
		products[i].Description = products[i].LocalizedDescription(locale)
	}
	return products
}
