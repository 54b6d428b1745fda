package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmkediri/storefront/internal/domain"
)

func newHome(wp domain.WordPressClient) *HomeService {
	resolver := newResolver()
	catalog := NewCatalogService(resolver, wp)
	content := NewContentService(resolver, wp)
	search := NewSearchService(resolver, wp, catalog, content)
	return NewHomeService(resolver, catalog, search, content)
}

// featuredFake serves ten products per main category with deliberate
// vendor overlap between FnB and fashion.
func featuredFake() *fakeWPClient {
	wp := newFakeWPClient()
	vendorBase := map[int]int{16: 100, 18: 102, 20: 200}

	wp.listProducts = func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
		base, ok := vendorBase[params.Category]
		if !ok {
			return nil, &domain.PageInfo{TotalPages: 1}, nil
		}
		var products []domain.Product
		for i := 0; i < 10; i++ {
			products = append(products, productOf(params.Category*100+i, base+i, fmt.Sprintf("Produk %d-%d", params.Category, i)))
		}
		return products, &domain.PageInfo{Total: 10, TotalPages: 1}, nil
	}
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: fmt.Sprintf("Warung %d", storeID)}, nil
	}
	return wp
}

func TestGetFeaturedProducts_Selection(t *testing.T) {
	svc := newHome(featuredFake())
	products := svc.GetFeaturedProducts(context.Background())

	require.Len(t, products, 9)

	vendors := make(map[int]bool)
	perCategory := make(map[string]int)
	for _, p := range products {
		require.NotNil(t, p.Store)
		assert.False(t, vendors[p.Store.ID], "vendor %d selected twice", p.Store.ID)
		vendors[p.Store.ID] = true

		require.NotNil(t, p.MainCategory)
		perCategory[p.MainCategory.Slug]++

		assert.NotEmpty(t, p.VendorDetailURL)
	}

	for slug, count := range perCategory {
		assert.LessOrEqual(t, count, featuredPerCategory, "category %s exceeds its quota", slug)
	}
	assert.Equal(t, 3, perCategory["fnb"])
	assert.Equal(t, 3, perCategory["fashion"])
	assert.Equal(t, 3, perCategory["kerajinan"])
}

func TestGetFeaturedProducts_VendorOverlapSkipped(t *testing.T) {
	wp := featuredFake()
	svc := newHome(wp)

	products := svc.GetFeaturedProducts(context.Background())

	// FnB takes vendors 100..102; fashion's candidates start at 102 and
	// must not reuse them.
	seenFnB := map[int]bool{}
	for _, p := range products {
		if p.MainCategory.Slug == "fnb" {
			seenFnB[p.Store.ID] = true
		}
	}
	for _, p := range products {
		if p.MainCategory.Slug != "fnb" {
			assert.False(t, seenFnB[p.Store.ID])
		}
	}
}

func TestGetFeaturedProducts_CategoryFailureSkipped(t *testing.T) {
	wp := featuredFake()
	inner := wp.listProducts
	wp.listProducts = func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
		if params.Category == 18 {
			return nil, nil, domain.ErrUpstreamFailure
		}
		return inner(params)
	}

	svc := newHome(wp)
	products := svc.GetFeaturedProducts(context.Background())

	require.Len(t, products, 6, "a failing category is skipped, not fatal")
	for _, p := range products {
		assert.NotEqual(t, "fashion", p.MainCategory.Slug)
	}
}

func TestGetFeaturedProducts_FewerAvailable(t *testing.T) {
	wp := newFakeWPClient()
	wp.listProducts = func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
		if params.Category == 16 {
			return []domain.Product{
				productOf(1, 101, "Nasi Pecel"),
				productOf(2, 102, "Es Degan"),
			}, &domain.PageInfo{Total: 2, TotalPages: 1}, nil
		}
		return nil, &domain.PageInfo{TotalPages: 1}, nil
	}
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: "Warung"}, nil
	}

	svc := newHome(wp)
	products := svc.GetFeaturedProducts(context.Background())

	assert.Len(t, products, 2, "selection shrinks to what the catalog offers")
}

func TestGetHomepageData(t *testing.T) {
	wp := featuredFake()
	wp.listPosts = func(params domain.PostListParams) ([]domain.WPPost, *domain.PageInfo, error) {
		assert.Equal(t, 1, params.Page)
		assert.Equal(t, 3, params.PerPage)
		return []domain.WPPost{
			{ID: 1, Slug: "kabar-satu", Title: domain.Rendered{Rendered: "Kabar Satu"}},
		}, &domain.PageInfo{Total: 1, TotalPages: 1}, nil
	}
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return []domain.Vendor{{ID: 1, StoreName: "Warung Makanan"}}, nil
	}
	wp.listCategories = func(params domain.CategoryListParams) ([]domain.Category, error) {
		if params.Slug != "" {
			return []domain.Category{{ID: 16, Name: "FnB", Slug: params.Slug}}, nil
		}
		return []domain.Category{
			{ID: 16, Name: "FnB", Slug: "fnb"},
			{ID: 18, Name: "Fashion", Slug: "fashion"},
			{ID: 20, Name: "Kerajinan", Slug: "kerajinan"},
		}, nil
	}

	svc := newHome(wp)
	data := svc.GetHomepageData(context.Background())

	require.Len(t, data.LatestPosts.Posts, 1)
	assert.Equal(t, "Kabar Satu", data.LatestPosts.Posts[0].Title)
	require.Len(t, data.Vendors, 1)
	assert.Len(t, data.Categories, 3)
	assert.NotEmpty(t, data.FeaturedProducts)
	assert.LessOrEqual(t, len(data.FeaturedProducts), 6)
}

func TestGetHomepageData_AllLegsDownStillNeutral(t *testing.T) {
	wp := newFakeWPClient()
	wp.listPosts = func(params domain.PostListParams) ([]domain.WPPost, *domain.PageInfo, error) {
		return nil, nil, domain.ErrUpstreamFailure
	}
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return nil, domain.ErrUpstreamFailure
	}
	wp.listCategories = func(params domain.CategoryListParams) ([]domain.Category, error) {
		return nil, domain.ErrUpstreamFailure
	}

	svc := newHome(wp)
	data := svc.GetHomepageData(context.Background())

	assert.NotNil(t, data.LatestPosts.Posts)
	assert.NotNil(t, data.FeaturedProducts)
	assert.NotNil(t, data.Vendors)
	assert.NotNil(t, data.Categories)
	assert.Empty(t, data.Vendors)
}
