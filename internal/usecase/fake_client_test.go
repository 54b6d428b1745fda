package usecase

import (
	"context"

	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
)

// newResolver builds a memory-backed resolver for service tests.
func newResolver() *cache.Resolver {
	return cache.NewResolver(cache.NewMemoryCache())
}

// fakeWPClient implements domain.WordPressClient with overridable
// function fields. Unset operations answer empty results.
type fakeWPClient struct {
	configured bool

	listStores        func(params domain.StoreListParams) ([]domain.Vendor, error)
	getStore          func(storeID int) (*domain.Vendor, error)
	listStoreProducts func(vendorID int, params domain.ProductListParams) ([]domain.Product, error)
	getUser           func(userID int) (*domain.WPUser, error)
	listProducts      func(params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error)
	listCategories    func(params domain.CategoryListParams) ([]domain.Category, error)
	listPosts         func(params domain.PostListParams) ([]domain.WPPost, *domain.PageInfo, error)
	listPostCats      func() ([]domain.PostCategory, error)
	getMedia          func(mediaID int) (*domain.WPMedia, error)
	searchMedia       func(params domain.MediaSearchParams) ([]domain.WPMedia, error)
}

func newFakeWPClient() *fakeWPClient {
	return &fakeWPClient{configured: true}
}

func (f *fakeWPClient) ListStores(ctx context.Context, params domain.StoreListParams) ([]domain.Vendor, error) {
	if f.listStores == nil {
		return nil, nil
	}
	return f.listStores(params)
}

func (f *fakeWPClient) GetStore(ctx context.Context, storeID int) (*domain.Vendor, error) {
	if f.getStore == nil {
		return nil, domain.ErrNotFound
	}
	return f.getStore(storeID)
}

func (f *fakeWPClient) ListStoreProducts(ctx context.Context, vendorID int, params domain.ProductListParams) ([]domain.Product, error) {
	if f.listStoreProducts == nil {
		return nil, nil
	}
	return f.listStoreProducts(vendorID, params)
}

func (f *fakeWPClient) GetUser(ctx context.Context, userID int) (*domain.WPUser, error) {
	if f.getUser == nil {
		return nil, domain.ErrNotFound
	}
	return f.getUser(userID)
}

func (f *fakeWPClient) ListProducts(ctx context.Context, params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
	if f.listProducts == nil {
		return nil, &domain.PageInfo{TotalPages: 1}, nil
	}
	return f.listProducts(params)
}

func (f *fakeWPClient) ListProductCategories(ctx context.Context, params domain.CategoryListParams) ([]domain.Category, error) {
	if f.listCategories == nil {
		return nil, nil
	}
	return f.listCategories(params)
}

func (f *fakeWPClient) ListPosts(ctx context.Context, params domain.PostListParams) ([]domain.WPPost, *domain.PageInfo, error) {
	if f.listPosts == nil {
		return nil, &domain.PageInfo{TotalPages: 1}, nil
	}
	return f.listPosts(params)
}

func (f *fakeWPClient) ListPostCategories(ctx context.Context) ([]domain.PostCategory, error) {
	if f.listPostCats == nil {
		return nil, nil
	}
	return f.listPostCats()
}

func (f *fakeWPClient) GetMedia(ctx context.Context, mediaID int) (*domain.WPMedia, error) {
	if f.getMedia == nil {
		return nil, domain.ErrNotFound
	}
	return f.getMedia(mediaID)
}

func (f *fakeWPClient) SearchMedia(ctx context.Context, params domain.MediaSearchParams) ([]domain.WPMedia, error) {
	if f.searchMedia == nil {
		return nil, nil
	}
	return f.searchMedia(params)
}

func (f *fakeWPClient) Configured() bool {
	return f.configured
}

var _ domain.WordPressClient = (*fakeWPClient)(nil)

// productOf builds a product owned by a vendor.
func productOf(productID, vendorID int, name string, categories ...domain.CategoryRef) domain.Product {
	return domain.Product{
		ID:         productID,
		Name:       name,
		Categories: categories,
		Store:      &domain.Vendor{ID: vendorID},
	}
}
