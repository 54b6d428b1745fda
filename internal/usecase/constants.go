package usecase

import (
	"time"

	"github.com/umkmkediri/storefront/internal/domain"
)

// Cache TTLs per operation class. Content reads are short-lived, vendor
// aggregates live longer because they fan out to many upstream calls.
const (
	ttlPosts        = 1 * time.Minute
	ttlSearch       = 5 * time.Minute
	ttlVendors      = 10 * time.Minute
	ttlVendorDetail = 30 * time.Minute
)

// Vendor discovery tuning. Discovery pages are deliberately smaller than
// the upstream maximum, and the loop is hard-capped so a misbehaving
// upstream can never drag one request through unbounded pagination.
const (
	discoveryPageSize = 50
	maxDiscoveryPages = 20
)

// Homepage featured selection limits.
const (
	featuredTotal       = 9
	featuredPerCategory = 3
)

// mainCategorySlugs fixes the iteration order of the storefront's main
// product categories (the homepage walks them in this order).
var mainCategorySlugs = []string{"fnb", "fashion", "kerajinan"}

// mainProductCategories is the hard-coded main category set; these IDs are
// stable in the production WooCommerce install.
var mainProductCategories = map[string]domain.Category{
	"fnb":       {ID: 16, Name: "FnB", Slug: "fnb"},
	"fashion":   {ID: 18, Name: "Fashion", Slug: "fashion"},
	"kerajinan": {ID: 20, Name: "Kerajinan", Slug: "kerajinan"},
}

// MainCategoryBySlug returns a main product category by slug, nil when the
// slug is not one of the fixed set.
func MainCategoryBySlug(slug string) *domain.Category {
	if cat, ok := mainProductCategories[slug]; ok {
		return &cat
	}
	return nil
}
