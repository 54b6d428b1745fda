package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umkmkediri/storefront/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/home", handler.GetHomepage)
		v1.GET("/home/featured", handler.GetFeaturedProducts)

		v1.GET("/vendors", handler.GetVendors)

		categories := v1.Group("/categories")
		{
			categories.GET("", handler.GetProductCategories)
			categories.GET("/:slug/vendors", handler.GetCategoryVendors)
			categories.GET("/:slug/vendors/:vendorSlug", handler.GetVendorDetail)
			categories.GET("/:slug/products", handler.GetCategoryProducts)
			categories.GET("/:slug/search", handler.SearchCategoryProducts)
			categories.GET("/:slug/stores-search", handler.SearchCategoryStores)
			categories.GET("/:slug/search-vendors", handler.GetCategorySearchVendors)
		}

		search := v1.Group("/search")
		{
			search.GET("/products", handler.SearchProducts)
			search.GET("/suggestions", handler.GetSearchSuggestions)
		}

		blog := v1.Group("/blog")
		{
			blog.GET("/posts", handler.GetPosts)
			blog.GET("/posts/:slug", handler.GetPost)
			blog.GET("/categories", handler.GetPostCategories)
		}

		media := v1.Group("/media")
		{
			media.GET("/by-title", handler.GetMediaByTitle)
			media.GET("/vendor-images", handler.GetVendorImages)
		}
	}

	return router
}
