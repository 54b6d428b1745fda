package domain

// ProductImage is a single product image as returned by WooCommerce.
type ProductImage struct {
	ID       int    `json:"id,omitempty"`
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Name     string `json:"name,omitempty"`
	Position int    `json:"position,omitempty"`
}

// CategoryRef is the category reference embedded in a product record.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category is a WooCommerce product category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	Image *struct {
		Src string `json:"src"`
	} `json:"image,omitempty"`

	// ImageURL is filled on presentation paths (category image or a
	// placeholder), never by the upstream decode.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Product represents a WooCommerce product. Raw upstream records may miss
// most optional fields; wordpress.NormalizeProduct guarantees Name, Images,
// PriceHTML, ShortDescription and Description are populated.
type Product struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Price            string         `json:"price"`
	PriceHTML        string         `json:"price_html"`
	Images           []ProductImage `json:"images"`
	ShortDescription string         `json:"short_description"`
	Description      string         `json:"description"`
	Categories       []CategoryRef  `json:"categories"`
	Featured         bool           `json:"featured,omitempty"`
	AverageRating    string         `json:"average_rating,omitempty"`
	OnSale           bool           `json:"on_sale,omitempty"`
	RegularPrice     string         `json:"regular_price,omitempty"`
	SalePrice        string         `json:"sale_price,omitempty"`

	// Store is the owning vendor. On raw records it holds only the
	// shallow reference WooCommerce embeds; composite fetchers may
	// replace it with the full Dokan store.
	Store *Vendor `json:"store,omitempty"`

	// MainCategory is stamped by the homepage featured selection.
	MainCategory *Category `json:"mainCategory,omitempty"`

	// VendorDetailUrl points at the storefront vendor page
	// (/products/{categorySlug}/{vendorSlug}) when resolvable.
	VendorDetailURL string `json:"vendorDetailUrl,omitempty"`
}

// VendorID returns the owning vendor's ID, 0 when unknown.
func (p Product) VendorID() int {
	if p.Store == nil {
		return 0
	}
	return p.Store.ID
}

// ProductSearchResult is a paginated product result assembled in-memory.
type ProductSearchResult struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	PerPage     int       `json:"perPage,omitempty"`
}

// StoreSearchResult is a paginated store result assembled in-memory.
type StoreSearchResult struct {
	Stores      []Vendor `json:"stores"`
	Total       int      `json:"total"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	PerPage     int      `json:"perPage"`
}

// Suggestion is a single search-bar suggestion.
type Suggestion struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// CategoryVendors is the vendor-discovery page for a product category.
type CategoryVendors struct {
	Vendors      []Vendor  `json:"vendors"`
	Category     *Category `json:"category"`
	TotalVendors int       `json:"totalVendors"`
	TotalPages   int       `json:"totalPages"`
}

// VendorDetail is the vendor detail page aggregate.
type VendorDetail struct {
	Vendor   *Vendor   `json:"vendor"`
	Category *Category `json:"category"`
	Products []Product `json:"products"`
}

// CategoryProducts is a paginated product listing for a category, with
// totals taken from the upstream pagination headers.
type CategoryProducts struct {
	Products    []Product `json:"products"`
	Category    *Category `json:"category"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	PerPage     int       `json:"perPage"`
}

// CategoryVendorList is the lightweight category+vendors aggregate used by
// the search results page.
type CategoryVendorList struct {
	Vendors  []Vendor  `json:"vendors"`
	Category *Category `json:"category"`
}

// HomepageData aggregates everything the homepage renders in one call.
type HomepageData struct {
	LatestPosts      PostList   `json:"latestPostsData"`
	FeaturedProducts []Product  `json:"featuredProducts"`
	Vendors          []Vendor   `json:"vendors"`
	Categories       []Category `json:"categories"`
}
