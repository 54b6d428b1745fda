package usecase

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
)

// HomeService assembles the homepage aggregates from the other services.
type HomeService struct {
	resolver *cache.Resolver
	catalog  *CatalogService
	search   *SearchService
	content  *ContentService
}

// NewHomeService creates a home service.
func NewHomeService(resolver *cache.Resolver, catalog *CatalogService, search *SearchService, content *ContentService) *HomeService {
	return &HomeService{resolver: resolver, catalog: catalog, search: search, content: content}
}

// GetFeaturedProducts selects the homepage showcase: up to nine products
// drawn from the main categories, at most three per category, every
// product from a different vendor. Category fetch failures skip that
// category rather than emptying the showcase.
func (s *HomeService) GetFeaturedProducts(ctx context.Context) []domain.Product {
	key := cache.NewKey("homepage_featured")
	products, err := cache.Resolve(ctx, s.resolver, key, ttlVendors, func(ctx context.Context) ([]domain.Product, error) {
		selected := s.selectFeatured(ctx)
		s.attachFeaturedVendors(ctx, selected)
		return selected, nil
	})
	if err != nil {
		log.Printf("[GetFeaturedProducts] %v", err)
		return []domain.Product{}
	}
	if products == nil {
		return []domain.Product{}
	}
	return products
}

// selectFeatured walks the main categories in their fixed order and
// greedily picks products, enforcing the per-category and unique-vendor
// limits.
func (s *HomeService) selectFeatured(ctx context.Context) []domain.Product {
	usedVendors := make(map[int]bool)
	selected := make([]domain.Product, 0, featuredTotal)

	for _, slug := range mainCategorySlugs {
		if len(selected) >= featuredTotal {
			break
		}
		category := MainCategoryBySlug(slug)

		candidates, err := s.catalog.productsByCategoryPage(ctx, category.ID, 10, 1)
		if err != nil {
			log.Printf("[selectFeatured] category %s: %v", slug, err)
			continue
		}

		taken := 0
		for _, product := range candidates {
			if taken >= featuredPerCategory || len(selected) >= featuredTotal {
				break
			}
			vendorID := product.VendorID()
			if vendorID == 0 || usedVendors[vendorID] {
				continue
			}
			usedVendors[vendorID] = true

			product.MainCategory = category
			selected = append(selected, product)
			taken++
		}
	}
	return selected
}

// attachFeaturedVendors replaces the shallow store references on the
// selection with full vendor records and stamps the vendor-detail URLs.
func (s *HomeService) attachFeaturedVendors(ctx context.Context, products []domain.Product) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range products {
		g.Go(func() error {
			vendor := s.catalog.GetStoreByID(gctx, products[i].VendorID())
			if vendor == nil {
				return nil
			}
			products[i].Store = vendor
			if products[i].MainCategory != nil && vendor.Slug != "" {
				products[i].VendorDetailURL = "/products/" + products[i].MainCategory.Slug + "/" + vendor.Slug
			}
			return nil
		})
	}
	_ = g.Wait()
}

// GetHomepageData aggregates everything the homepage renders: the latest
// posts, up to six featured products drawn two per navigation category,
// the active vendors and the category list. Each leg degrades
// independently.
func (s *HomeService) GetHomepageData(ctx context.Context) domain.HomepageData {
	neutral := domain.HomepageData{
		LatestPosts:      domain.PostList{Posts: []domain.Post{}},
		FeaturedProducts: []domain.Product{},
		Vendors:          []domain.Vendor{},
		Categories:       []domain.Category{},
	}

	key := cache.NewKey("homepage_data")
	result, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (domain.HomepageData, error) {
		data := neutral
		data.LatestPosts = s.content.GetPosts(ctx, 1, 3)
		data.Vendors = s.catalog.GetAllActiveVendors(ctx)
		data.Categories = s.catalog.GetProductCategories(ctx)

		// Two products from each of the first three navigation categories.
		for _, category := range data.Categories {
			if len(data.FeaturedProducts) >= 6 {
				break
			}
			page := s.search.GetProductsByCategorySearch(ctx, category.Slug, 1, 2)
			for _, product := range page.Products {
				if len(data.FeaturedProducts) >= 6 {
					break
				}
				data.FeaturedProducts = append(data.FeaturedProducts, product)
			}
		}
		return data, nil
	})
	if err != nil {
		log.Printf("[GetHomepageData] %v", err)
		return neutral
	}
	return result
}
