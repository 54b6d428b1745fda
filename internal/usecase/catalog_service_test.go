package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmkediri/storefront/internal/domain"
)

func newCatalog(wp domain.WordPressClient) *CatalogService {
	return NewCatalogService(newResolver(), wp)
}

func TestGetCategoryBySlug(t *testing.T) {
	svc := newCatalog(newFakeWPClient())

	fnb := svc.GetCategoryBySlug("fnb")
	require.NotNil(t, fnb)
	assert.Equal(t, 16, fnb.ID)
	assert.Equal(t, "FnB", fnb.Name)

	assert.Nil(t, svc.GetCategoryBySlug("elektronik"))
}

func TestGetStoreByID_EnrichedFromUser(t *testing.T) {
	wp := newFakeWPClient()
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: "Warung Bu Tini"}, nil
	}
	wp.getUser = func(userID int) (*domain.WPUser, error) {
		return &domain.WPUser{
			ID:          userID,
			Description: "<p>Penjual <b>nasi pecel</b></p>",
			AvatarURLs:  map[string]string{"96": "avatar.png"},
		}, nil
	}

	svc := newCatalog(wp)
	vendor := svc.GetStoreByID(context.Background(), 12)

	require.NotNil(t, vendor)
	assert.Equal(t, "Warung Bu Tini", vendor.StoreName)
	assert.Equal(t, "warung-bu-tini", vendor.Slug)
	assert.Equal(t, "avatar.png", vendor.Icon)
	assert.Equal(t, "Penjual nasi pecel", vendor.Biography)
}

func TestGetStoreByID_MissingUserDegrades(t *testing.T) {
	wp := newFakeWPClient()
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: "Toko Batik"}, nil
	}

	svc := newCatalog(wp)
	vendor := svc.GetStoreByID(context.Background(), 4)

	require.NotNil(t, vendor)
	assert.Equal(t, "Toko Batik", vendor.StoreName)
	assert.Empty(t, vendor.Biography)
}

func TestGetStoreByID_NotFound(t *testing.T) {
	wp := newFakeWPClient()
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return nil, domain.ErrNotFound
	}

	svc := newCatalog(wp)
	assert.Nil(t, svc.GetStoreByID(context.Background(), 999))
}

func TestGetStoreByID_UpstreamFailure(t *testing.T) {
	wp := newFakeWPClient()
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return nil, domain.ErrUpstreamFailure
	}

	svc := newCatalog(wp)
	assert.Nil(t, svc.GetStoreByID(context.Background(), 12))
}

func TestGetStoreBySlug_MatchPriority(t *testing.T) {
	stores := []domain.Vendor{
		{ID: 1, StoreName: "Warung Bu Tini", Slug: "warung-bu-tini"},
		{ID: 2, StoreName: "Toko Batik Kediri"},
		{ID: 3, StoreName: "Pusat Oleh Oleh dan Batik"},
	}
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return stores, nil
	}

	tests := []struct {
		name   string
		slug   string
		wantID int
	}{
		{"exact slug match", "warung-bu-tini", 1},
		{"derived slug match", "toko-batik-kediri", 2},
		{"name containment with hyphens as spaces", "oleh-oleh", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCatalog(wp)
			vendor := svc.GetStoreBySlug(context.Background(), tt.slug)
			require.NotNil(t, vendor)
			assert.Equal(t, tt.wantID, vendor.ID)
		})
	}
}

func TestGetStoreBySlug_ExactBeatsContainment(t *testing.T) {
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return []domain.Vendor{
			{ID: 1, StoreName: "Batik dan Tenun"},
			{ID: 2, StoreName: "Batik", Slug: "batik"},
		}, nil
	}

	svc := newCatalog(wp)
	vendor := svc.GetStoreBySlug(context.Background(), "batik")

	require.NotNil(t, vendor)
	assert.Equal(t, 2, vendor.ID, "an exact slug match must win over an earlier containment match")
}

func TestGetStoreBySlug_ListFailureDegrades(t *testing.T) {
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return nil, errors.New("status 500")
	}

	svc := newCatalog(wp)
	assert.Nil(t, svc.GetStoreBySlug(context.Background(), "warung-bu-tini"))
}

func TestGetStoreBySlug_NoMatchCachedAsAbsence(t *testing.T) {
	calls := 0
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		calls++
		return []domain.Vendor{}, nil
	}

	svc := newCatalog(wp)
	assert.Nil(t, svc.GetStoreBySlug(context.Background(), "missing"))
	assert.Nil(t, svc.GetStoreBySlug(context.Background(), "missing"))
	assert.Equal(t, 1, calls, "a confirmed miss must be cached, not refetched")
}

// discoveryFake serves two product pages for the FnB category: vendors
// 101..106 on page one, 107..108 on page two.
func discoveryFake(t *testing.T) *fakeWPClient {
	t.Helper()
	wp := newFakeWPClient()

	wp.listProducts = func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
		require.Equal(t, 16, params.Category)
		require.Equal(t, discoveryPageSize, params.PerPage)

		switch params.Page {
		case 1:
			products := make([]domain.Product, 0, discoveryPageSize)
			for i := 0; i < discoveryPageSize; i++ {
				vendorID := 101 + i%6
				products = append(products, productOf(1000+i, vendorID, fmt.Sprintf("Produk %d", i)))
			}
			return products, &domain.PageInfo{Total: 52, TotalPages: 2}, nil
		case 2:
			return []domain.Product{
				productOf(2000, 107, "Produk A"),
				productOf(2001, 108, "Produk B"),
			}, &domain.PageInfo{Total: 52, TotalPages: 2}, nil
		default:
			return nil, &domain.PageInfo{Total: 52, TotalPages: 2}, nil
		}
	}
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: fmt.Sprintf("Warung %d", storeID)}, nil
	}
	return wp
}

func TestGetVendorsForCategoryPage_Pagination(t *testing.T) {
	svc := newCatalog(discoveryFake(t))
	ctx := context.Background()

	// Discovery stops as soon as page*perPage unique vendors are found, so
	// the page-1 call only ever sees the six vendors on the first product
	// page and reports totals for those.
	pageOne := svc.GetVendorsForCategoryPage(ctx, "fnb", 1, 6)
	require.Len(t, pageOne.Vendors, 6)
	assert.Equal(t, 6, pageOne.TotalVendors)
	assert.Equal(t, 1, pageOne.TotalPages)
	require.NotNil(t, pageOne.Category)
	assert.Equal(t, "fnb", pageOne.Category.Slug)

	// The page-2 call needs twelve uniques, walks both product pages, and
	// exhausts the upstream at eight.
	pageTwo := svc.GetVendorsForCategoryPage(ctx, "fnb", 2, 6)
	require.Len(t, pageTwo.Vendors, 2)
	assert.Equal(t, 8, pageTwo.TotalVendors)
	assert.Equal(t, 2, pageTwo.TotalPages)

	seen := make(map[int]bool)
	for _, v := range append(pageOne.Vendors, pageTwo.Vendors...) {
		assert.False(t, seen[v.ID], "vendor %d appears on both pages", v.ID)
		seen[v.ID] = true
		assert.Equal(t, "fnb", v.CategorySlug)
		assert.NotEmpty(t, v.Slug)
	}
	assert.Len(t, seen, 8)
}

func TestGetVendorsForCategoryPage_StableOrder(t *testing.T) {
	svc := newCatalog(discoveryFake(t))
	ctx := context.Background()

	page := svc.GetVendorsForCategoryPage(ctx, "fnb", 1, 6)
	require.Len(t, page.Vendors, 6)
	for i := 1; i < len(page.Vendors); i++ {
		assert.Less(t, page.Vendors[i-1].ID, page.Vendors[i].ID, "vendors must come out in ascending ID order")
	}
}

func TestGetVendorsForCategoryPage_UnknownCategory(t *testing.T) {
	svc := newCatalog(newFakeWPClient())

	result := svc.GetVendorsForCategoryPage(context.Background(), "elektronik", 1, 6)
	assert.Empty(t, result.Vendors)
	assert.Nil(t, result.Category)
	assert.Zero(t, result.TotalVendors)
}

func TestGetVendorsForCategoryPage_DiscoveryFailureDegrades(t *testing.T) {
	wp := newFakeWPClient()
	wp.listProducts = func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
		return nil, nil, domain.ErrUpstreamFailure
	}

	svc := newCatalog(wp)
	result := svc.GetVendorsForCategoryPage(context.Background(), "fnb", 1, 6)

	assert.Empty(t, result.Vendors)
	assert.Zero(t, result.TotalVendors)
}

func TestGetVendorDetail_FiltersProductsToCategory(t *testing.T) {
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return []domain.Vendor{{ID: 7, StoreName: "Warung Bu Tini"}}, nil
	}
	wp.getStore = func(storeID int) (*domain.Vendor, error) {
		return &domain.Vendor{ID: storeID, StoreName: "Warung Bu Tini"}, nil
	}
	wp.listStoreProducts = func(vendorID int, params domain.ProductListParams) ([]domain.Product, error) {
		require.Equal(t, 7, vendorID)
		fnb := domain.CategoryRef{ID: 16, Name: "FnB", Slug: "fnb"}
		fashion := domain.CategoryRef{ID: 18, Name: "Fashion", Slug: "fashion"}
		return []domain.Product{
			productOf(1, 7, "Nasi Pecel", fnb),
			productOf(2, 7, "Kain Tenun", fashion),
			productOf(3, 7, "Es Degan", fnb),
		}, nil
	}

	svc := newCatalog(wp)
	detail := svc.GetVendorDetail(context.Background(), "fnb", "warung-bu-tini")

	require.NotNil(t, detail.Vendor)
	assert.Equal(t, 7, detail.Vendor.ID)
	require.NotNil(t, detail.Category)
	assert.Equal(t, 16, detail.Category.ID)
	require.Len(t, detail.Products, 2)
	assert.Equal(t, "Nasi Pecel", detail.Products[0].Name)
	assert.Equal(t, "Es Degan", detail.Products[1].Name)
}

func TestGetVendorDetail_UnknownVendor(t *testing.T) {
	svc := newCatalog(newFakeWPClient())

	detail := svc.GetVendorDetail(context.Background(), "fnb", "tidak-ada")
	assert.Nil(t, detail.Vendor)
	require.NotNil(t, detail.Category)
	assert.Empty(t, detail.Products)
}

func TestGetAllActiveVendors_Classification(t *testing.T) {
	inactive := false
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return []domain.Vendor{
			{ID: 1, StoreName: "Warung Makanan Bu Tini"},
			{ID: 2, StoreName: "Kerajinan Kayu Jati"},
			{ID: 3, StoreName: "Toko Batik"},
			{ID: 4, StoreName: "Nonaktif", Enabled: &inactive},
			{ID: 0, StoreName: "Tanpa ID"},
		}, nil
	}

	svc := newCatalog(wp)
	vendors := svc.GetAllActiveVendors(context.Background())

	require.Len(t, vendors, 3, "inactive and ID-less stores must be dropped")
	assert.Equal(t, "kuliner", vendors[0].CategorySlug)
	assert.Equal(t, "kerajinan", vendors[1].CategorySlug)
	assert.Equal(t, "fashion", vendors[2].CategorySlug, "unmatched names fall back to fashion")
	assert.Equal(t, "Fashion", vendors[2].CategoryName)
}

func TestGetAllActiveVendors_FailureDegrades(t *testing.T) {
	wp := newFakeWPClient()
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		return nil, domain.ErrUpstreamFailure
	}

	svc := newCatalog(wp)
	assert.Empty(t, svc.GetAllActiveVendors(context.Background()))
}

func TestGetProductCategories(t *testing.T) {
	wp := newFakeWPClient()
	wp.listCategories = func(params domain.CategoryListParams) ([]domain.Category, error) {
		assert.Equal(t, 10, params.PerPage)
		assert.True(t, params.HideEmpty)
		return []domain.Category{{ID: 16, Name: "FnB", Slug: "fnb"}}, nil
	}

	svc := newCatalog(wp)
	categories := svc.GetProductCategories(context.Background())

	require.Len(t, categories, 1)
	assert.Equal(t, "fnb", categories[0].Slug)
}

func TestNotConfiguredShortCircuits(t *testing.T) {
	wp := newFakeWPClient()
	wp.configured = false
	wp.listStores = func(params domain.StoreListParams) ([]domain.Vendor, error) {
		t.Fatal("upstream must not be touched when unconfigured")
		return nil, nil
	}

	svc := newCatalog(wp)
	ctx := context.Background()

	assert.Nil(t, svc.GetStoreByID(ctx, 1))
	assert.Nil(t, svc.GetStoreBySlug(ctx, "x"))
	assert.Empty(t, svc.GetAllActiveVendors(ctx))
	assert.Empty(t, svc.GetProductCategories(ctx))
	assert.Empty(t, svc.GetVendorsForCategoryPage(ctx, "fnb", 1, 6).Vendors)
}
