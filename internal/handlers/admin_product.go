package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
)

/* =======================
   GET (ADMIN) – LIST
======================= */

func GetAllProducts(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		products := store.GetAdminProducts(c.Request.Context())

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr == "" && limitStr == "" {
			c.JSON(http.StatusOK, products)
			return
		}

		page, limit, err := parsePaginationParams(pageStr, limitStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		total := int64(len(products))
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}

		c.JSON(http.StatusOK, gin.H{
			"data": products[start:end],
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var input catalog.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		product, err := store.AddProduct(c.Request.Context(), input)
		if errors.Is(err, catalog.ErrInvalid) {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if err != nil {
			log.Printf("[%s] add failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		log.Printf("[%s] created %s (%s)", route, product.ID, product.Slug)
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		var input catalog.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		product, err := store.UpdateProduct(c.Request.Context(), c.Param("id"), input)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if errors.Is(err, catalog.ErrInvalid) {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if err != nil {
			log.Printf("[%s] update failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

type featuredRequest struct {
	ShowInFeatured *bool `json:"showInFeatured" binding:"required"`
}

func UpdateFeaturedStatus(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id/featured"
		defer handlePanic(c, route)

		var req featuredRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "showInFeatured required")
			return
		}

		product, err := store.UpdateFeaturedStatus(c.Request.Context(), c.Param("id"), *req.ShowInFeatured)
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func ReorderFeaturedProducts(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/reorder"
		defer handlePanic(c, route)

		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "ids required")
			return
		}

		if err := store.ReorderFeaturedProducts(c.Request.Context(), req.IDs); err != nil {
			// a failure partway leaves earlier ids already reordered
			log.Printf("[%s] reorder failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "reordered"})
	}
}

/* =======================
   DELETE
======================= */

// DeleteProduct always reports success once the record left the cache, even
// when the remote removal is uncertain. Known limitation of the catalog:
// the admin stops seeing the record immediately, remote cleanup is
// best-effort until the next repair or refresh.
func DeleteProduct(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		err := store.DeleteProduct(c.Request.Context(), c.Param("id"))
		if errors.Is(err, catalog.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

/* =======================
   MAINTENANCE
======================= */

func ForceRefresh(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products/refresh"
		defer handlePanic(c, route)

		store.ForceRefresh(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "catalog refreshed"})
	}
}

func RepairProductIDs(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products/repair"
		defer handlePanic(c, route)

		repaired, err := store.RepairProductIDs(c.Request.Context())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		log.Printf("[%s] repaired %d product id(s)", route, repaired)
		c.JSON(http.StatusOK, gin.H{"repaired": repaired})
	}
}
