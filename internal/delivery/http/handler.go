package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/umkmkediri/storefront/internal/usecase"
)

// Handler holds dependencies for HTTP handlers. Every endpoint answers
// 200 with a neutral body when the upstream is unavailable; the services
// never surface errors.
type Handler struct {
	catalog *usecase.CatalogService
	search  *usecase.SearchService
	home    *usecase.HomeService
	content *usecase.ContentService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, search *usecase.SearchService, home *usecase.HomeService, content *usecase.ContentService) *Handler {
	return &Handler{catalog: catalog, search: search, home: home, content: content}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "umkm-storefront",
		"version": "1.0.0",
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// GetHomepage returns the homepage aggregate
func (h *Handler) GetHomepage(c *gin.Context) {
	c.JSON(http.StatusOK, h.home.GetHomepageData(c.Request.Context()))
}

// GetFeaturedProducts returns the homepage featured showcase
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.home.GetFeaturedProducts(c.Request.Context()),
	})
}

// GetVendors returns the public vendor list
func (h *Handler) GetVendors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"vendors": h.catalog.GetAllActiveVendors(c.Request.Context()),
	})
}

// GetCategoryVendors returns a page of vendors selling in a category
func (h *Handler) GetCategoryVendors(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 6)
	c.JSON(http.StatusOK, h.catalog.GetVendorsForCategoryPage(c.Request.Context(), c.Param("slug"), page, perPage))
}

// GetVendorDetail returns a vendor's detail page within a category
func (h *Handler) GetVendorDetail(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetVendorDetail(c.Request.Context(), c.Param("slug"), c.Param("vendorSlug")))
}

// GetCategoryProducts returns a page of a category's products
func (h *Handler) GetCategoryProducts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 12)
	c.JSON(http.StatusOK, h.search.GetProductsByCategorySearch(c.Request.Context(), c.Param("slug"), page, perPage))
}

// GetProductCategories returns the navigation category list
func (h *Handler) GetProductCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalog.GetProductCategories(c.Request.Context()),
	})
}

// SearchProducts searches products across all categories
func (h *Handler) SearchProducts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 10)
	c.JSON(http.StatusOK, h.search.SearchProducts(c.Request.Context(), c.Query("q"), page, perPage))
}

// GetSearchSuggestions returns search-bar suggestions
func (h *Handler) GetSearchSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.search.GetSearchSuggestions(c.Request.Context(), c.Query("q")),
	})
}

// SearchCategoryProducts searches products within a category
func (h *Handler) SearchCategoryProducts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 10)
	c.JSON(http.StatusOK, h.search.SearchProductsByCategory(c.Request.Context(), c.Param("slug"), c.Query("q"), page, perPage))
}

// SearchCategoryStores searches stores within a category
func (h *Handler) SearchCategoryStores(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 10)
	c.JSON(http.StatusOK, h.search.SearchStoresByCategory(c.Request.Context(), c.Param("slug"), c.Query("q"), page, perPage))
}

// GetCategorySearchVendors returns the vendors shown on the category
// search landing page
func (h *Handler) GetCategorySearchVendors(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.GetVendorsForCategorySearch(c.Request.Context(), c.Param("slug")))
}

// GetPosts returns a page of blog posts
func (h *Handler) GetPosts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "perPage", 10)
	c.JSON(http.StatusOK, h.content.GetPosts(c.Request.Context(), page, perPage))
}

// GetPost returns a single blog post by slug
func (h *Handler) GetPost(c *gin.Context) {
	post := h.content.GetPost(c.Request.Context(), c.Param("slug"))
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetPostCategories returns the blog taxonomy terms
func (h *Handler) GetPostCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.content.GetPostCategories(c.Request.Context()),
	})
}

// GetMediaByTitle returns the first media item matching a title
func (h *Handler) GetMediaByTitle(c *gin.Context) {
	media := h.content.GetMediaByTitle(c.Request.Context(), c.Query("title"))
	c.JSON(http.StatusOK, gin.H{"media": media})
}

// GetVendorImages returns a store's gallery images from the media library
func (h *Handler) GetVendorImages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"images": h.content.GetVendorImages(c.Request.Context(), c.Query("storeName")),
	})
}
