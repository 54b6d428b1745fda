package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/umkmkediri/storefront/internal/domain"
)

// Per-endpoint timeouts for the posts API: single-post reads back a page
// render and must fail fast, listings may legitimately be slow.
const (
	singlePostTimeout = 7 * time.Second
	postListTimeout   = 30 * time.Second
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_upstream_requests_total",
	Help: "Upstream WordPress requests by endpoint class and status",
}, []string{"endpoint", "status"})

// Client handles communication with the WordPress, Dokan and WooCommerce
// REST APIs behind a single site.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	signer      URLSigner
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new upstream client. baseURL is the WordPress site
// root; an empty baseURL yields a client whose operations all fail with
// ErrUpstreamNotConfigured.
func NewClient(baseURL string, signer URLSigner, upstreamRPS float64) *Client {
	if upstreamRPS <= 0 {
		upstreamRPS = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		signer:      signer,
		rateLimiter: rate.NewLimiter(rate.Limit(upstreamRPS), 10),
	}
}

// SetDebug enables request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetHTTPClient overrides the transport (tests, custom timeouts).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Configured reports whether the upstream base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// apiURL builds a wp-json URL for the given route and query.
func (c *Client) apiURL(route string, q url.Values) string {
	u := c.baseURL + "/wp-json" + route
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// get performs a rate-limited GET, optionally signed, and returns the
// response body and headers. Non-2xx statuses map to ErrNotFound (404) or
// ErrUpstreamFailure.
func (c *Client) get(ctx context.Context, endpoint, reqURL string, sign bool) ([]byte, http.Header, error) {
	if !c.Configured() {
		return nil, nil, domain.ErrUpstreamNotConfigured
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if sign {
		reqURL = c.signer.Sign(reqURL, http.MethodGet)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "umkm-storefront/1.0")

	if c.debug {
		log.Printf("[WP] GET %s", reqURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading body: %v", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.debug {
			log.Printf("[WP] %s returned %d: %s", endpoint, resp.StatusCode, string(body))
		}
		return nil, nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	return body, resp.Header, nil
}

// getJSON decodes a GET response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, sign bool, out any) (http.Header, error) {
	body, headers, err := c.get(ctx, endpoint, reqURL, sign)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return headers, nil
}

// pageInfo extracts the WordPress pagination totals from response headers.
func pageInfo(headers http.Header) *domain.PageInfo {
	totalPages, err := strconv.Atoi(headers.Get("X-WP-TotalPages"))
	if err != nil {
		totalPages = 1
	}
	total, err := strconv.Atoi(headers.Get("X-WP-Total"))
	if err != nil {
		total = 0
	}
	return &domain.PageInfo{Total: total, TotalPages: totalPages}
}

// ListStores fetches Dokan stores.
func (c *Client) ListStores(ctx context.Context, params domain.StoreListParams) ([]domain.Vendor, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	var stores []domain.Vendor
	if _, err := c.getJSON(ctx, "dokan_stores", c.apiURL("/dokan/v1/stores", q), true, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// GetStore fetches a single Dokan store by ID.
func (c *Client) GetStore(ctx context.Context, storeID int) (*domain.Vendor, error) {
	if storeID <= 0 {
		return nil, fmt.Errorf("%w: store id %d", domain.ErrInvalidRequest, storeID)
	}
	var store domain.Vendor
	route := fmt.Sprintf("/dokan/v1/stores/%d", storeID)
	if _, err := c.getJSON(ctx, "dokan_store", c.apiURL(route, nil), true, &store); err != nil {
		return nil, err
	}
	if store.ID == 0 {
		// Dokan answers 200 with an error object for unknown stores
		return nil, domain.ErrNotFound
	}
	return &store, nil
}

// storeProductFields is the field projection requested from the Dokan
// products endpoint.
const storeProductFields = "id,name,price,price_html,images,short_description,description,categories,featured,average_rating,on_sale,regular_price,sale_price,store"

// ListStoreProducts fetches a vendor's products from Dokan.
func (c *Client) ListStoreProducts(ctx context.Context, vendorID int, params domain.ProductListParams) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("fields", storeProductFields)
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	q.Set("per_page", strconv.Itoa(perPage))
	if params.Embed {
		q.Set("_embed", "true")
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Category > 0 {
		q.Set("category", strconv.Itoa(params.Category))
	}

	var products []domain.Product
	route := fmt.Sprintf("/dokan/v1/stores/%d/products", vendorID)
	if _, err := c.getJSON(ctx, "dokan_store_products", c.apiURL(route, q), true, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetUser fetches a WordPress user profile (vendor avatar/biography).
func (c *Client) GetUser(ctx context.Context, userID int) (*domain.WPUser, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id %d", domain.ErrInvalidRequest, userID)
	}
	q := url.Values{}
	q.Set("_embed", "true")

	var user domain.WPUser
	route := fmt.Sprintf("/wp/v2/users/%d", userID)
	if _, err := c.getJSON(ctx, "wp_user", c.apiURL(route, q), true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListProducts fetches WooCommerce products with pagination totals.
func (c *Client) ListProducts(ctx context.Context, params domain.ProductListParams) ([]domain.Product, *domain.PageInfo, error) {
	q := url.Values{}
	if params.Category > 0 {
		q.Set("category", strconv.Itoa(params.Category))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Vendor > 0 {
		q.Set("vendor", strconv.Itoa(params.Vendor))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}

	var products []domain.Product
	headers, err := c.getJSON(ctx, "wc_products", c.apiURL("/wc/v3/products", q), true, &products)
	if err != nil {
		return nil, nil, err
	}
	return products, pageInfo(headers), nil
}

// ListProductCategories fetches WooCommerce product categories.
func (c *Client) ListProductCategories(ctx context.Context, params domain.CategoryListParams) ([]domain.Category, error) {
	q := url.Values{}
	if params.Slug != "" {
		q.Set("slug", params.Slug)
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.HideEmpty {
		q.Set("hide_empty", "true")
	}

	var categories []domain.Category
	if _, err := c.getJSON(ctx, "wc_categories", c.apiURL("/wc/v3/products/categories", q), true, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPosts fetches blog posts. Requests are unsigned (the posts API is
// public) and bounded by an explicit timeout: short for slug lookups, long
// for listings.
func (c *Client) ListPosts(ctx context.Context, params domain.PostListParams) ([]domain.WPPost, *domain.PageInfo, error) {
	timeout := postListTimeout
	if params.Slug != "" {
		timeout = singlePostTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	q := url.Values{}
	if params.Slug != "" {
		q.Set("slug", params.Slug)
	} else {
		q.Set("orderby", "date")
		q.Set("order", "desc")
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	perPage := params.PerPage
	if perPage <= 0 && params.Slug == "" {
		perPage = 10
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	if params.Embed {
		q.Set("_embed", "true")
	}

	var posts []domain.WPPost
	headers, err := c.getJSON(ctx, "wp_posts", c.apiURL("/wp/v2/posts", q), false, &posts)
	if err != nil {
		return nil, nil, err
	}
	return posts, pageInfo(headers), nil
}

// ListPostCategories fetches blog taxonomy categories.
func (c *Client) ListPostCategories(ctx context.Context) ([]domain.PostCategory, error) {
	q := url.Values{}
	q.Set("per_page", "100")

	var categories []domain.PostCategory
	if _, err := c.getJSON(ctx, "wp_categories", c.apiURL("/wp/v2/categories", q), false, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetMedia fetches a single media record by ID.
func (c *Client) GetMedia(ctx context.Context, mediaID int) (*domain.WPMedia, error) {
	if mediaID <= 0 {
		return nil, fmt.Errorf("%w: media id %d", domain.ErrInvalidRequest, mediaID)
	}
	var media domain.WPMedia
	route := fmt.Sprintf("/wp/v2/media/%d", mediaID)
	if _, err := c.getJSON(ctx, "wp_media", c.apiURL(route, nil), false, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// SearchMedia searches the media library.
func (c *Client) SearchMedia(ctx context.Context, params domain.MediaSearchParams) ([]domain.WPMedia, error) {
	q := url.Values{}
	q.Set("search", params.Search)
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.OrderBy != "" {
		q.Set("orderby", params.OrderBy)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}

	var media []domain.WPMedia
	if _, err := c.getJSON(ctx, "wp_media_search", c.apiURL("/wp/v2/media", q), true, &media); err != nil {
		return nil, err
	}
	return media, nil
}

var _ domain.WordPressClient = (*Client)(nil)
