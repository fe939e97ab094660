package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}

	store := catalog.NewStore(
		catalog.NewMongoTable(db),
		catalog.BundledSnapshot(),
		catalog.NewBroadcaster(),
	)

	unsubscribe := store.Events().Subscribe(func(evt catalog.Event) {
		log.Printf("catalog event %s: %s (%s)", evt.Type, evt.Product.ID, evt.Product.Name)
	})
	defer unsubscribe()

	r := gin.Default()

	r.GET("/products", handlers.GetProducts(store))
	r.GET("/products/featured", handlers.GetFeaturedProducts(store))
	r.GET("/products/:slug", handlers.GetProductBySlug(store))
	r.GET("/categories", handlers.GetCategories(store))

	r.POST("/admin/login", handlers.AdminLogin(config.AppEnv))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(store))
		admin.POST("/products", handlers.CreateProduct(store))
		admin.PUT("/products/reorder", handlers.ReorderFeaturedProducts(store))
		admin.POST("/products/refresh", handlers.ForceRefresh(store))
		admin.POST("/products/repair", handlers.RepairProductIDs(store))
		admin.PUT("/products/:id", handlers.UpdateProduct(store))
		admin.PUT("/products/:id/featured", handlers.UpdateFeaturedStatus(store))
		admin.DELETE("/products/:id", handlers.DeleteProduct(store))

		admin.GET("/events", handlers.StreamCatalogEvents(store))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
