package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations. Values are
// opaque JSON-encoded bytes so memory and redis backends behave uniformly
// and callers always receive a private copy on decode.
type CacheRepository interface {
	// Get returns the stored bytes or ErrCacheMiss when the key is absent
	// or its TTL has elapsed.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PageInfo carries upstream pagination totals (X-WP-Total headers).
type PageInfo struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// StoreListParams are the query parameters for Dokan store listings.
type StoreListParams struct {
	Search  string
	PerPage int
	Page    int
}

// ProductListParams are the query parameters for WooCommerce product
// listings. Zero values are omitted from the request.
type ProductListParams struct {
	Category int
	Search   string
	Vendor   int
	PerPage  int
	Page     int
	Status   string
	Embed    bool
}

// CategoryListParams are the query parameters for product category
// listings.
type CategoryListParams struct {
	Slug      string
	PerPage   int
	HideEmpty bool
}

// PostListParams are the query parameters for blog post listings.
type PostListParams struct {
	Slug    string
	Search  string
	Page    int
	PerPage int
	Embed   bool
}

// MediaSearchParams are the query parameters for media library searches.
type MediaSearchParams struct {
	Search  string
	PerPage int
	OrderBy string
	Order   string
}

// WordPressClient defines the interface for the upstream WordPress, Dokan
// and WooCommerce APIs. Implementations sign requests when credentials are
// configured and return ErrUpstreamNotConfigured when the base URL is
// unset.
type WordPressClient interface {
	ListStores(ctx context.Context, params StoreListParams) ([]Vendor, error)
	GetStore(ctx context.Context, storeID int) (*Vendor, error)
	ListStoreProducts(ctx context.Context, vendorID int, params ProductListParams) ([]Product, error)
	GetUser(ctx context.Context, userID int) (*WPUser, error)

	ListProducts(ctx context.Context, params ProductListParams) ([]Product, *PageInfo, error)
	ListProductCategories(ctx context.Context, params CategoryListParams) ([]Category, error)

	ListPosts(ctx context.Context, params PostListParams) ([]WPPost, *PageInfo, error)
	ListPostCategories(ctx context.Context) ([]PostCategory, error)
	GetMedia(ctx context.Context, mediaID int) (*WPMedia, error)
	SearchMedia(ctx context.Context, params MediaSearchParams) ([]WPMedia, error)

	// Configured reports whether the upstream base URL is set; exposed
	// operations short-circuit to their neutral result when it is not.
	Configured() bool
}
