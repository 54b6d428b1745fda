package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
	"github.com/umkmkediri/storefront/internal/infrastructure/wordpress"
)

// CatalogService exposes the vendor and product-catalog read operations.
// Every exposed method degrades to an empty/neutral result instead of
// returning an error; producer failures are caught at this layer.
type CatalogService struct {
	resolver *cache.Resolver
	wp       domain.WordPressClient
}

// NewCatalogService creates a catalog service.
func NewCatalogService(resolver *cache.Resolver, wp domain.WordPressClient) *CatalogService {
	return &CatalogService{resolver: resolver, wp: wp}
}

// GetCategoryBySlug resolves one of the fixed main product categories.
func (s *CatalogService) GetCategoryBySlug(slug string) *domain.Category {
	return MainCategoryBySlug(slug)
}

// GetStoreByID returns the full vendor record for a Dokan store: the store
// itself plus avatar and biography from the owning WordPress user, fetched
// concurrently. Returns nil when the store does not exist or the upstream
// is unavailable.
func (s *CatalogService) GetStoreByID(ctx context.Context, storeID int) *domain.Vendor {
	if storeID == 0 || !s.wp.Configured() {
		return nil
	}

	key := cache.NewKey("dokan_store").WithInt("id", storeID)
	vendor, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) (*domain.Vendor, error) {
		return s.fetchStoreWithProfile(ctx, storeID)
	})
	if err != nil {
		log.Printf("[GetStoreByID] store %d: %v", storeID, err)
		return nil
	}
	return vendor
}

// fetchStoreWithProfile fans out to the Dokan store and the WordPress user
// profile and joins the results. A missing store is cached as absence; a
// transport failure propagates so it is not cached. The profile is a
// secondary enrichment and degrades silently.
func (s *CatalogService) fetchStoreWithProfile(ctx context.Context, storeID int) (*domain.Vendor, error) {
	var (
		store *domain.Vendor
		user  *domain.WPUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.wp.GetStore(gctx, storeID)
		if err != nil {
			return err
		}
		store = v
		return nil
	})
	g.Go(func() error {
		u, err := s.wp.GetUser(gctx, storeID)
		if err == nil {
			user = u
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	normalized := wordpress.NormalizeVendor(*store)
	applyUserProfile(&normalized, user)
	return &normalized, nil
}

// applyUserProfile overrides icon and biography from the WordPress user
// record when present.
func applyUserProfile(vendor *domain.Vendor, user *domain.WPUser) {
	if user == nil {
		return
	}
	if avatar := user.AvatarURL(); avatar != "" {
		vendor.Icon = avatar
	}
	if user.Description != "" {
		vendor.Biography = wordpress.StripHTML(user.Description)
	}
}

// GetStoreBySlug finds a vendor by storefront slug. Match priority: exact
// slug, then the slug derived from the store name, then store-name
// containment of the query with hyphens read as spaces. First match wins.
func (s *CatalogService) GetStoreBySlug(ctx context.Context, slug string) *domain.Vendor {
	if slug == "" || !s.wp.Configured() {
		return nil
	}

	key := cache.NewKey("dokan_store_by_slug").With("slug", slug)
	vendor, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) (*domain.Vendor, error) {
		stores, err := s.wp.ListStores(ctx, domain.StoreListParams{PerPage: 50})
		if err != nil {
			return nil, err
		}

		match := matchStoreBySlug(stores, slug)
		if match == nil {
			return nil, nil
		}

		normalized := wordpress.NormalizeVendor(*match)
		if user, err := s.wp.GetUser(ctx, normalized.ID); err == nil {
			applyUserProfile(&normalized, user)
		}
		return &normalized, nil
	})
	if err != nil {
		log.Printf("[GetStoreBySlug] slug %q: %v", slug, err)
		return nil
	}
	return vendor
}

// matchStoreBySlug applies the three match criteria in priority order.
func matchStoreBySlug(stores []domain.Vendor, slug string) *domain.Vendor {
	for i := range stores {
		if stores[i].Slug == slug {
			return &stores[i]
		}
	}
	for i := range stores {
		if name := stores[i].DisplayName(); name != "" && wordpress.SlugFromStoreName(name) == slug {
			return &stores[i]
		}
	}
	query := strings.ReplaceAll(slug, "-", " ")
	for i := range stores {
		if name := stores[i].DisplayName(); name != "" && strings.Contains(strings.ToLower(name), query) {
			return &stores[i]
		}
	}
	return nil
}

// productsByCategoryPage is the cached discovery primitive: one page of a
// category's products. Errors propagate to the discovery loop, which
// treats them as an exhausted upstream.
func (s *CatalogService) productsByCategoryPage(ctx context.Context, categoryID, perPage, page int) ([]domain.Product, error) {
	key := cache.NewKey("products_by_category").
		WithInt("category", categoryID).
		WithInt("per_page", perPage).
		WithInt("page", page)

	return cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) ([]domain.Product, error) {
		products, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: categoryID,
			PerPage:  perPage,
			Page:     page,
			Status:   "publish",
		})
		return products, err
	})
}

// GetVendorsForCategoryPage discovers the vendors selling in a category.
// There is no direct vendors-by-category endpoint, so identity is derived
// by walking the category's products and collecting distinct store IDs.
// The walk stops once enough unique vendors exist for the requested page,
// on a short or empty product page, or at the hard page cap. IDs are
// sorted before windowing so pagination is stable across calls.
func (s *CatalogService) GetVendorsForCategoryPage(ctx context.Context, categorySlug string, page, vendorsPerPage int) domain.CategoryVendors {
	neutral := domain.CategoryVendors{Vendors: []domain.Vendor{}}
	if !s.wp.Configured() {
		return neutral
	}
	if page < 1 {
		page = 1
	}
	if vendorsPerPage < 1 {
		vendorsPerPage = 6
	}

	key := cache.NewKey("vendors_for_category_page").
		With("category", categorySlug).
		WithInt("page", page).
		WithInt("per_page", vendorsPerPage)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) (domain.CategoryVendors, error) {
		category := MainCategoryBySlug(categorySlug)
		if category == nil {
			return neutral, nil
		}

		vendorIDs := s.discoverVendorIDs(ctx, category.ID, page*vendorsPerPage)

		sort.Ints(vendorIDs)
		totalVendors := len(vendorIDs)
		totalPages := (totalVendors + vendorsPerPage - 1) / vendorsPerPage

		start := (page - 1) * vendorsPerPage
		if start > totalVendors {
			start = totalVendors
		}
		end := start + vendorsPerPage
		if end > totalVendors {
			end = totalVendors
		}

		vendors := s.fetchVendorDetails(ctx, vendorIDs[start:end], category.Slug)

		return domain.CategoryVendors{
			Vendors:      vendors,
			Category:     category,
			TotalVendors: totalVendors,
			TotalPages:   totalPages,
		}, nil
	})
	if err != nil {
		log.Printf("[GetVendorsForCategoryPage] category %q page %d: %v", categorySlug, page, err)
		return neutral
	}
	return result
}

// discoverVendorIDs walks product pages sequentially (each continuation
// decision depends on the previous page) until wanted unique vendors are
// found or the upstream is exhausted.
func (s *CatalogService) discoverVendorIDs(ctx context.Context, categoryID, wanted int) []int {
	seen := make(map[int]bool)

	for productsPage := 1; productsPage <= maxDiscoveryPages; productsPage++ {
		products, err := s.productsByCategoryPage(ctx, categoryID, discoveryPageSize, productsPage)
		if err != nil {
			log.Printf("[discoverVendorIDs] category %d page %d: %v", categoryID, productsPage, err)
			break
		}
		if len(products) == 0 {
			break
		}

		for _, product := range products {
			if id := product.VendorID(); id != 0 {
				seen[id] = true
			}
		}

		if len(seen) >= wanted || len(products) < discoveryPageSize {
			break
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

// fetchVendorDetails resolves full vendor records concurrently, drops
// vendors without a usable slug, and stamps the category slug.
func (s *CatalogService) fetchVendorDetails(ctx context.Context, vendorIDs []int, categorySlug string) []domain.Vendor {
	fetched := make([]*domain.Vendor, len(vendorIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range vendorIDs {
		g.Go(func() error {
			fetched[i] = s.GetStoreByID(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	vendors := make([]domain.Vendor, 0, len(vendorIDs))
	for _, vendor := range fetched {
		if vendor == nil || vendor.Slug == "" {
			continue
		}
		v := *vendor
		v.CategorySlug = categorySlug
		vendors = append(vendors, v)
	}
	return vendors
}

// GetStoreProducts lists a vendor's products from Dokan, normalized and
// HTML-stripped.
func (s *CatalogService) GetStoreProducts(ctx context.Context, vendorID int, params domain.ProductListParams) []domain.Product {
	if vendorID == 0 || !s.wp.Configured() {
		return []domain.Product{}
	}

	key := cache.NewKey("dokan_products").
		WithInt("vendor", vendorID).
		WithInt("category", params.Category).
		WithInt("per_page", params.PerPage).
		WithInt("page", params.Page).
		With("status", params.Status).
		WithBool("embed", params.Embed)

	products, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) ([]domain.Product, error) {
		raw, err := s.wp.ListStoreProducts(ctx, vendorID, params)
		if err != nil {
			return nil, err
		}
		normalized := make([]domain.Product, 0, len(raw))
		for _, product := range raw {
			normalized = append(normalized, wordpress.NormalizeProduct(product))
		}
		return normalized, nil
	})
	if err != nil {
		log.Printf("[GetStoreProducts] vendor %d: %v", vendorID, err)
		return []domain.Product{}
	}
	if products == nil {
		return []domain.Product{}
	}
	return products
}

// GetVendorDetail assembles the vendor detail page: the vendor (global
// slug lookup with a category-discovery fallback), the fixed category, and
// the vendor's products narrowed to the category.
func (s *CatalogService) GetVendorDetail(ctx context.Context, categorySlug, vendorSlug string) domain.VendorDetail {
	neutral := domain.VendorDetail{Products: []domain.Product{}}
	if !s.wp.Configured() {
		return neutral
	}

	key := cache.NewKey("vendor_detail").
		With("category", categorySlug).
		With("vendor", vendorSlug)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlVendorDetail, func(ctx context.Context) (domain.VendorDetail, error) {
		category := MainCategoryBySlug(categorySlug)
		if category == nil {
			return neutral, nil
		}

		// Global lookup first (more reliable), then fall back to the
		// category's own vendor discovery.
		vendor := s.GetStoreBySlug(ctx, vendorSlug)
		if vendor == nil {
			discovered := s.GetVendorsForCategoryPage(ctx, categorySlug, 1, 50)
			for i := range discovered.Vendors {
				v := &discovered.Vendors[i]
				if v.Slug == vendorSlug || strconv.Itoa(v.ID) == vendorSlug {
					vendor = v
					break
				}
			}
		}
		if vendor == nil {
			return domain.VendorDetail{Category: category, Products: []domain.Product{}}, nil
		}

		products := s.GetStoreProducts(ctx, vendor.ID, domain.ProductListParams{
			Embed:    true,
			PerPage:  50,
			Status:   "publish",
			Category: category.ID,
		})

		// Enforce the category filter as a safeguard; Dokan ignores the
		// category parameter on some versions.
		filtered := make([]domain.Product, 0, len(products))
		for _, product := range products {
			if product.Categories != nil && !productInCategory(product, category.ID) {
				continue
			}
			filtered = append(filtered, product)
		}

		return domain.VendorDetail{
			Vendor:   vendor,
			Category: category,
			Products: filtered,
		}, nil
	})
	if err != nil {
		log.Printf("[GetVendorDetail] %s/%s: %v", categorySlug, vendorSlug, err)
		return neutral
	}
	return result
}

func productInCategory(product domain.Product, categoryID int) bool {
	for _, ref := range product.Categories {
		if ref.ID == categoryID {
			return true
		}
	}
	return false
}

// GetAllActiveVendors lists publicly visible vendors with a category
// classification derived from the store name. The keyword mapping (and its
// unconditional fashion fallback) is documented business policy.
func (s *CatalogService) GetAllActiveVendors(ctx context.Context) []domain.Vendor {
	if !s.wp.Configured() {
		return []domain.Vendor{}
	}

	key := cache.NewKey("all_active_vendors")
	vendors, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) ([]domain.Vendor, error) {
		stores, err := s.wp.ListStores(ctx, domain.StoreListParams{PerPage: 50})
		if err != nil {
			return nil, err
		}

		if len(stores) > 30 {
			stores = stores[:30]
		}

		active := make([]domain.Vendor, 0, len(stores))
		for _, store := range stores {
			if store.ID == 0 || !store.Active() {
				continue
			}
			vendor := wordpress.NormalizeVendor(store)
			vendor.CategorySlug, vendor.CategoryName = classifyVendor(vendor.StoreName)
			active = append(active, vendor)
		}
		return active, nil
	})
	if err != nil {
		log.Printf("[GetAllActiveVendors] %v", err)
		return []domain.Vendor{}
	}
	if vendors == nil {
		return []domain.Vendor{}
	}
	return vendors
}

// classifyVendor maps a store name to a storefront category by keyword.
func classifyVendor(storeName string) (slug, name string) {
	lowered := strings.ToLower(storeName)
	switch {
	case strings.Contains(lowered, "makanan") || strings.Contains(lowered, "minuman") || strings.Contains(lowered, "kuliner"):
		return "kuliner", "Kuliner"
	case strings.Contains(lowered, "kerajinan") || strings.Contains(lowered, "handmade") || strings.Contains(lowered, "craft"):
		return "kerajinan", "Kerajinan"
	default:
		return "fashion", "Fashion"
	}
}

// GetProductCategories lists the WooCommerce product categories shown in
// navigation.
func (s *CatalogService) GetProductCategories(ctx context.Context) []domain.Category {
	if !s.wp.Configured() {
		return []domain.Category{}
	}

	key := cache.NewKey("product_categories")
	categories, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) ([]domain.Category, error) {
		return s.wp.ListProductCategories(ctx, domain.CategoryListParams{PerPage: 10, HideEmpty: true})
	})
	if err != nil {
		log.Printf("[GetProductCategories] %v", err)
		return []domain.Category{}
	}
	if categories == nil {
		return []domain.Category{}
	}
	return categories
}
