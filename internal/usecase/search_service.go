package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
	"github.com/umkmkediri/storefront/internal/infrastructure/wordpress"
)

// SearchService exposes the search and category-browsing operations. It
// leans on CatalogService for vendor records and ContentService for media
// lookups.
type SearchService struct {
	resolver *cache.Resolver
	wp       domain.WordPressClient
	catalog  *CatalogService
	content  *ContentService
}

// NewSearchService creates a search service.
func NewSearchService(resolver *cache.Resolver, wp domain.WordPressClient, catalog *CatalogService, content *ContentService) *SearchService {
	return &SearchService{resolver: resolver, wp: wp, catalog: catalog, content: content}
}

// getStoreForSearch resolves a lightly-normalized store record on a search
// TTL, without the user-profile enrichment the full vendor path does.
func (s *SearchService) getStoreForSearch(ctx context.Context, storeID int) *domain.Vendor {
	if storeID == 0 {
		return nil
	}

	key := cache.NewKey("store_search").WithInt("id", storeID)
	vendor, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (*domain.Vendor, error) {
		store, err := s.wp.GetStore(ctx, storeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		normalized := wordpress.NormalizeVendor(*store)
		return &normalized, nil
	})
	if err != nil {
		log.Printf("[getStoreForSearch] store %d: %v", storeID, err)
		return nil
	}
	return vendor
}

// emptyProductResult is the neutral search response for a page.
func emptyProductResult(page, perPage int) domain.ProductSearchResult {
	return domain.ProductSearchResult{Products: []domain.Product{}, CurrentPage: page, PerPage: perPage}
}

// SearchProducts searches products across all categories by name. Queries
// shorter than two characters return the neutral result without touching
// the upstream. Results are ranked with name-starts-with matches before
// name-contains matches and paginated in memory.
func (s *SearchService) SearchProducts(ctx context.Context, query string, page, perPage int) domain.ProductSearchResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	query = strings.TrimSpace(query)
	if len(query) < 2 || !s.wp.Configured() {
		return emptyProductResult(1, perPage)
	}

	key := cache.NewKey("search_products").
		With("q", strings.ToLower(query)).
		WithInt("page", page).
		WithInt("per_page", perPage)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.ProductSearchResult, error) {
		products, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Search:  query,
			PerPage: 50,
			Status:  "publish",
		})
		if err != nil {
			return emptyProductResult(page, perPage), err
		}

		products = dropUncategorized(products)
		s.enrichWithVendors(ctx, products, 30)

		lowered := strings.ToLower(query)
		matched := make([]domain.Product, 0, len(products))
		for _, product := range products {
			if strings.Contains(strings.ToLower(product.Name), lowered) {
				matched = append(matched, wordpress.WithPlaceholderImage(wordpress.NormalizeProduct(product)))
			}
		}
		rankByQuery(matched, lowered)

		return paginateProducts(matched, page, perPage), nil
	})
	if err != nil {
		log.Printf("[SearchProducts] %q: %v", query, err)
		return emptyProductResult(page, perPage)
	}
	return result
}

// dropUncategorized removes products whose only taxonomy is the WooCommerce
// default "uncategorized" bucket.
func dropUncategorized(products []domain.Product) []domain.Product {
	kept := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if isUncategorized(product) {
			continue
		}
		kept = append(kept, product)
	}
	return kept
}

func isUncategorized(product domain.Product) bool {
	for _, ref := range product.Categories {
		if ref.Slug == "uncategorized" || strings.Contains(strings.ToLower(ref.Name), "uncategorized") {
			return true
		}
	}
	return false
}

// enrichWithVendors replaces the shallow store references on the first
// limit products with full vendor records and stamps the storefront
// vendor-detail URL. Vendors that cannot be resolved keep their shallow
// reference.
func (s *SearchService) enrichWithVendors(ctx context.Context, products []domain.Product, limit int) {
	if len(products) < limit {
		limit = len(products)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range products[:limit] {
		g.Go(func() error {
			vendorID := products[i].VendorID()
			if vendorID == 0 {
				return nil
			}
			vendor := s.catalog.GetStoreByID(gctx, vendorID)
			if vendor == nil {
				return nil
			}
			products[i].Store = vendor
			if vendor.CategorySlug != "" {
				products[i].VendorDetailURL = "/products/" + vendor.CategorySlug + "/" + vendor.Slug
			} else if catSlug := primaryMainCategorySlug(products[i]); catSlug != "" {
				products[i].VendorDetailURL = "/products/" + catSlug + "/" + vendor.Slug
			}
			return nil
		})
	}
	_ = g.Wait()
}

// primaryMainCategorySlug returns the first product category that is one of
// the storefront's main categories, empty otherwise.
func primaryMainCategorySlug(product domain.Product) string {
	for _, ref := range product.Categories {
		if MainCategoryBySlug(ref.Slug) != nil {
			return ref.Slug
		}
	}
	return ""
}

// rankByQuery orders products so names starting with the query come before
// names merely containing it, preserving upstream order within each band.
func rankByQuery(products []domain.Product, loweredQuery string) {
	sort.SliceStable(products, func(i, j int) bool {
		iStarts := strings.HasPrefix(strings.ToLower(products[i].Name), loweredQuery)
		jStarts := strings.HasPrefix(strings.ToLower(products[j].Name), loweredQuery)
		return iStarts && !jStarts
	})
}

// paginateProducts windows a fully-materialized result set.
func paginateProducts(products []domain.Product, page, perPage int) domain.ProductSearchResult {
	total := len(products)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return domain.ProductSearchResult{
		Products:    products[start:end],
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PerPage:     perPage,
	}
}

// GetSearchSuggestions returns up to six product suggestions for the
// search-bar dropdown.
func (s *SearchService) GetSearchSuggestions(ctx context.Context, query string) []domain.Suggestion {
	suggestions := []domain.Suggestion{}
	query = strings.TrimSpace(query)
	if len(query) < 2 || !s.wp.Configured() {
		return suggestions
	}

	key := cache.NewKey("search_suggestions").With("q", strings.ToLower(query))
	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) ([]domain.Suggestion, error) {
		products, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Search:  query,
			PerPage: 8,
			Status:  "publish",
		})
		if err != nil {
			return nil, err
		}

		lowered := strings.ToLower(query)
		out := make([]domain.Suggestion, 0, 6)
		for _, product := range products {
			if len(out) >= 6 {
				break
			}
			if !strings.Contains(strings.ToLower(product.Name), lowered) {
				continue
			}
			image := wordpress.PlaceholderProductImage
			if len(product.Images) > 0 && product.Images[0].Src != "" {
				image = product.Images[0].Src
			}
			out = append(out, domain.Suggestion{
				Type:  "product",
				Name:  product.Name,
				ID:    product.ID,
				Image: image,
			})
		}
		return out, nil
	})
	if err != nil {
		log.Printf("[GetSearchSuggestions] %q: %v", query, err)
		return suggestions
	}
	if result == nil {
		return suggestions
	}
	return result
}

// wcCategoryBySlug resolves a WooCommerce category record by slug through
// the categories endpoint.
func (s *SearchService) wcCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	categories, err := s.wp.ListProductCategories(ctx, domain.CategoryListParams{Slug: slug})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

// SearchProductsByCategory searches within one category, matching both
// product names and the products of name-matching stores, deduplicated by
// product ID.
func (s *SearchService) SearchProductsByCategory(ctx context.Context, categorySlug, query string, page, perPage int) domain.ProductSearchResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	query = strings.TrimSpace(query)
	if len(query) < 2 || !s.wp.Configured() {
		return emptyProductResult(1, perPage)
	}

	key := cache.NewKey("search_products_category").
		With("category", categorySlug).
		With("q", strings.ToLower(query)).
		WithInt("page", page).
		WithInt("per_page", perPage)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.ProductSearchResult, error) {
		category, err := s.wcCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return emptyProductResult(page, perPage), err
		}
		if category == nil {
			return emptyProductResult(page, perPage), nil
		}

		byName, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: category.ID,
			Search:   query,
			PerPage:  100,
			Status:   "publish",
		})
		if err != nil {
			return emptyProductResult(page, perPage), err
		}

		// Second leg: products of stores whose name matches the query.
		// Secondary enrichment; its failures degrade to the name-only set.
		byStore := s.productsOfMatchingStores(ctx, category.ID, query)

		merged := dedupeProducts(append(byName, byStore...))

		products := make([]domain.Product, 0, len(merged))
		for _, product := range merged {
			normalized := wordpress.WithPlaceholderImage(wordpress.NormalizeProduct(product))
			s.attachSearchStore(ctx, &normalized, categorySlug)
			products = append(products, normalized)
		}

		return paginateProducts(products, page, perPage), nil
	})
	if err != nil {
		log.Printf("[SearchProductsByCategory] %s %q: %v", categorySlug, query, err)
		return emptyProductResult(page, perPage)
	}
	return result
}

// productsOfMatchingStores finds stores whose name matches the query and
// gathers their products within the category, sequentially per store.
func (s *SearchService) productsOfMatchingStores(ctx context.Context, categoryID int, query string) []domain.Product {
	stores, err := s.wp.ListStores(ctx, domain.StoreListParams{Search: query, PerPage: 10})
	if err != nil {
		log.Printf("[productsOfMatchingStores] store search %q: %v", query, err)
		return nil
	}

	var products []domain.Product
	for _, store := range stores {
		if store.ID == 0 {
			continue
		}
		own, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: categoryID,
			Vendor:   store.ID,
			PerPage:  100,
			Status:   "publish",
		})
		if err != nil {
			log.Printf("[productsOfMatchingStores] store %d: %v", store.ID, err)
			continue
		}
		products = append(products, own...)
	}
	return products
}

func dedupeProducts(products []domain.Product) []domain.Product {
	seen := make(map[int]bool, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		out = append(out, product)
	}
	return out
}

// attachSearchStore swaps the shallow store reference for the search-TTL
// vendor record and stamps the vendor-detail URL. Unresolvable stores fall
// back to whatever name and slug the shallow reference carried.
func (s *SearchService) attachSearchStore(ctx context.Context, product *domain.Product, categorySlug string) {
	vendorID := product.VendorID()
	if vendorID == 0 {
		return
	}
	vendor := s.getStoreForSearch(ctx, vendorID)
	if vendor == nil {
		if product.Store != nil {
			shallow := wordpress.NormalizeVendor(*product.Store)
			product.Store = &shallow
		}
	} else {
		product.Store = vendor
	}
	if product.Store != nil && product.Store.Slug != "" {
		product.VendorDetailURL = "/products/" + categorySlug + "/" + product.Store.Slug
	}
}

// SearchStoresByCategory searches stores within a category: stores whose
// name matches plus owners of name-matching products in the category,
// deduplicated by store ID.
func (s *SearchService) SearchStoresByCategory(ctx context.Context, categorySlug, query string, page, perPage int) domain.StoreSearchResult {
	neutral := domain.StoreSearchResult{Stores: []domain.Vendor{}, CurrentPage: 1, PerPage: perPage}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
		neutral.PerPage = perPage
	}
	query = strings.TrimSpace(query)
	if len(query) < 2 || !s.wp.Configured() {
		return neutral
	}

	key := cache.NewKey("search_stores_category").
		With("category", categorySlug).
		With("q", strings.ToLower(query)).
		WithInt("page", page).
		WithInt("per_page", perPage)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.StoreSearchResult, error) {
		category, err := s.wcCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return neutral, err
		}
		if category == nil {
			return neutral, nil
		}

		byName, err := s.wp.ListStores(ctx, domain.StoreListParams{Search: query, PerPage: 50})
		if err != nil {
			return neutral, err
		}

		// Owners of in-category products whose name matches.
		byProduct, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: category.ID,
			Search:   query,
			PerPage:  100,
			Status:   "publish",
		})
		if err != nil {
			log.Printf("[SearchStoresByCategory] product leg %q: %v", query, err)
			byProduct = nil
		}

		seen := make(map[int]bool)
		stores := make([]domain.Vendor, 0, len(byName))
		add := func(v *domain.Vendor) {
			if v == nil || v.ID == 0 || seen[v.ID] {
				return
			}
			seen[v.ID] = true
			vendor := *v
			vendor.Icon = wordpress.StoreIconWithBanner(vendor)
			vendor.CategorySlug = category.Slug
			vendor.CategoryName = category.Name
			stores = append(stores, vendor)
		}

		for i := range byName {
			normalized := wordpress.NormalizeVendor(byName[i])
			add(&normalized)
		}
		for _, product := range byProduct {
			if id := product.VendorID(); id != 0 && !seen[id] {
				add(s.getStoreForSearch(ctx, id))
			}
		}

		total := len(stores)
		totalPages := (total + perPage - 1) / perPage
		start := (page - 1) * perPage
		if start > total {
			start = total
		}
		end := start + perPage
		if end > total {
			end = total
		}

		return domain.StoreSearchResult{
			Stores:      stores[start:end],
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: page,
			PerPage:     perPage,
		}, nil
	})
	if err != nil {
		log.Printf("[SearchStoresByCategory] %s %q: %v", categorySlug, query, err)
		return neutral
	}
	return result
}

// GetVendorsForCategorySearch lists up to ten distinct vendors selling in
// a category for the search landing page, each with its gallery store
// image when one exists.
func (s *SearchService) GetVendorsForCategorySearch(ctx context.Context, categorySlug string) domain.CategoryVendorList {
	neutral := domain.CategoryVendorList{Vendors: []domain.Vendor{}}
	if !s.wp.Configured() {
		return neutral
	}

	key := cache.NewKey("vendors_for_category_search").With("category", categorySlug)
	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.CategoryVendorList, error) {
		category, err := s.wcCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return neutral, err
		}
		if category == nil {
			return neutral, nil
		}

		products, _, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: category.ID,
			PerPage:  50,
			Status:   "publish",
		})
		if err != nil {
			return neutral, err
		}

		seen := make(map[int]bool)
		vendors := make([]domain.Vendor, 0, 10)
		for _, product := range products {
			if len(vendors) >= 10 {
				break
			}
			id := product.VendorID()
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true

			vendor := s.getStoreForSearch(ctx, id)
			if vendor == nil {
				continue
			}
			v := *vendor
			v.CategorySlug = category.Slug
			v.CategoryName = category.Name
			if image := s.content.GetVendorStoreImage(ctx, v.StoreName); image != "" {
				v.StoreImage = image
			}
			vendors = append(vendors, v)
		}

		return domain.CategoryVendorList{Vendors: vendors, Category: category}, nil
	})
	if err != nil {
		log.Printf("[GetVendorsForCategorySearch] %s: %v", categorySlug, err)
		return neutral
	}
	return result
}

// GetProductsByCategorySearch lists a category's products for the search
// landing page, paginated by the upstream with header totals.
func (s *SearchService) GetProductsByCategorySearch(ctx context.Context, categorySlug string, page, perPage int) domain.CategoryProducts {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}
	neutral := domain.CategoryProducts{Products: []domain.Product{}, CurrentPage: page, PerPage: perPage}
	if !s.wp.Configured() {
		return neutral
	}

	key := cache.NewKey("products_by_category_search").
		With("category", categorySlug).
		WithInt("page", page).
		WithInt("per_page", perPage)

	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.CategoryProducts, error) {
		category, err := s.wcCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return neutral, err
		}
		if category == nil {
			return neutral, nil
		}

		raw, info, err := s.wp.ListProducts(ctx, domain.ProductListParams{
			Category: category.ID,
			PerPage:  perPage,
			Page:     page,
			Status:   "publish",
		})
		if err != nil {
			return neutral, err
		}

		products := make([]domain.Product, 0, len(raw))
		for _, product := range dropUncategorized(raw) {
			normalized := wordpress.WithPlaceholderImage(wordpress.NormalizeProduct(product))
			s.attachSearchStore(ctx, &normalized, category.Slug)
			products = append(products, normalized)
		}

		cat := *category
		if cat.Image != nil && cat.Image.Src != "" {
			cat.ImageURL = cat.Image.Src
		} else {
			cat.ImageURL = wordpress.PlaceholderCategoryImg
		}

		return domain.CategoryProducts{
			Products:    products,
			Category:    &cat,
			Total:       info.Total,
			TotalPages:  info.TotalPages,
			CurrentPage: page,
			PerPage:     perPage,
		}, nil
	})
	if err != nil {
		log.Printf("[GetProductsByCategorySearch] %s page %d: %v", categorySlug, page, err)
		return neutral
	}
	return result
}
