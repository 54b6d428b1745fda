package wordpress

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/umkmkediri/storefront/internal/domain"
)

// Placeholder literals surfaced when upstream data is missing. These are
// part of the storefront contract, not internal defaults.
const (
	PlaceholderStoreName    = "UMKM Tanpa Nama"
	PlaceholderProductName  = "Unnamed Product"
	PlaceholderSlug         = "unknown-store"
	PlaceholderProductImage = "/placeholder-product.jpg"
	PlaceholderCategoryImg  = "/placeholder-category.jpg"
	PlaceholderStoreIcon    = "https://via.placeholder.com/600x600.png?text=UMKM"
)

var (
	nonSlugCharsRegex  = regexp.MustCompile(`[^\w\s-]`)
	slugSeparatorRegex = regexp.MustCompile(`[\s_-]+`)
	edgeHyphensRegex   = regexp.MustCompile(`^-+|-+$`)
	htmlTagRegex       = regexp.MustCompile(`<[^>]*>?`)
)

// SlugFromStoreName derives a URL-safe slug from a display name:
// lowercase word characters and hyphens only, no runs, no edge hyphens.
// Unusable names produce the fixed fallback slug.
func SlugFromStoreName(name string) string {
	if strings.TrimSpace(name) == "" {
		return PlaceholderSlug
	}
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugCharsRegex.ReplaceAllString(slug, "")
	slug = slugSeparatorRegex.ReplaceAllString(slug, "-")
	slug = edgeHyphensRegex.ReplaceAllString(slug, "")
	if slug == "" {
		return PlaceholderSlug
	}
	return slug
}

// StripHTML removes markup tags. It intentionally does not decode
// entities; that is UnescapeEntities' job and only post text needs it.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlTagRegex.ReplaceAllString(s, "")
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#039;", "'",
)

// UnescapeEntities decodes the handful of HTML entities WordPress emits in
// rendered titles and content.
func UnescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// IsDefaultDokanBanner reports whether a banner URL is the Dokan plugin's
// stock placeholder (never worth showing as a store icon).
func IsDefaultDokanBanner(url string) bool {
	return strings.Contains(url, "dokan-lite") && strings.Contains(url, "default-store-banner")
}

// NormalizeVendor returns a vendor with the storefront guarantees applied:
// non-empty StoreName and Slug, defaulted address/social maps, and an icon
// resolved through the gravatar/avatar fallbacks. The input is not
// mutated.
func NormalizeVendor(v domain.Vendor) domain.Vendor {
	name := v.DisplayName()
	if name == "" {
		name = PlaceholderStoreName
	}
	v.StoreName = name

	slug := strings.TrimSpace(v.Slug)
	if slug == "" {
		slug = strings.TrimSpace(v.StoreSlug)
	}
	if slug == "" {
		slug = SlugFromStoreName(name)
	}
	v.Slug = slug

	if v.Address == nil {
		v.Address = map[string]any{}
	}
	if v.Social == nil {
		v.Social = map[string]any{}
	}

	if v.Icon == "" {
		if v.Gravatar != "" {
			v.Icon = v.Gravatar
		} else if v.Avatar != "" {
			v.Icon = v.Avatar
		}
	}

	return v
}

// StoreIconWithBanner resolves the icon used on store-search results,
// where a real banner outranks the stock placeholder image.
func StoreIconWithBanner(v domain.Vendor) string {
	if v.Icon != "" {
		return v.Icon
	}
	if v.Gravatar != "" {
		return v.Gravatar
	}
	if v.Banner != "" && !IsDefaultDokanBanner(v.Banner) {
		return v.Banner
	}
	return PlaceholderStoreIcon
}

// NormalizeProduct applies the product guarantees: non-empty name, non-nil
// images, and uniformly HTML-stripped description fields.
func NormalizeProduct(p domain.Product) domain.Product {
	if p.Name == "" {
		p.Name = PlaceholderProductName
	}
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}
	p.Description = StripHTML(p.Description)
	p.ShortDescription = StripHTML(p.ShortDescription)
	return p
}

// WithPlaceholderImage adds the stock product image when a normalized
// product has none (search and category listings render a thumbnail
// unconditionally).
func WithPlaceholderImage(p domain.Product) domain.Product {
	if len(p.Images) == 0 {
		p.Images = []domain.ProductImage{{
			Src: PlaceholderProductImage,
			Alt: p.Name,
		}}
	}
	return p
}

// FeaturedImageURL resolves a media record's best image URL: the direct
// source_url, else the largest available rendition from media_details.
func FeaturedImageURL(media domain.WPMedia) string {
	if media.SourceURL != "" {
		return media.SourceURL
	}
	details := gjson.ParseBytes(media.MediaDetails)
	for _, size := range []string{"full", "large", "medium_large", "medium"} {
		if src := details.Get("sizes." + size + ".source_url"); src.Exists() && src.String() != "" {
			return src.String()
		}
	}
	return ""
}

// MapPost normalizes a raw WordPress post: featured image resolved through
// the priority chain (embedded media, then Yoast og:image), author and
// terms lifted out of _embedded, entities unescaped in the text fields.
func MapPost(post domain.WPPost) domain.Post {
	var featuredImage string
	if post.Embedded != nil && len(post.Embedded.FeaturedMedia) > 0 {
		featuredImage = FeaturedImageURL(post.Embedded.FeaturedMedia[0])
	}
	if featuredImage == "" && len(post.YoastHeadJSON) > 0 {
		if img := gjson.GetBytes(post.YoastHeadJSON, "og_image.0.url"); img.Exists() {
			featuredImage = img.String()
		}
	}

	author := "Admin"
	if post.Embedded != nil && len(post.Embedded.Author) > 0 && post.Embedded.Author[0].Name != "" {
		author = post.Embedded.Author[0].Name
	}

	var categories, tags []domain.PostCategory
	if post.Embedded != nil {
		if len(post.Embedded.Terms) > 0 {
			categories = post.Embedded.Terms[0]
		}
		if len(post.Embedded.Terms) > 1 {
			tags = post.Embedded.Terms[1]
		}
	}
	if categories == nil {
		categories = []domain.PostCategory{}
	}
	if tags == nil {
		tags = []domain.PostCategory{}
	}

	var category *domain.PostCategory
	if len(categories) > 0 {
		category = &categories[0]
	}

	modified := post.Modified
	if modified == "" {
		modified = post.Date
	}

	return domain.Post{
		ID:            post.ID,
		Slug:          post.Slug,
		Title:         UnescapeEntities(post.Title.Rendered),
		Content:       UnescapeEntities(post.Content.Rendered),
		Excerpt:       UnescapeEntities(post.Excerpt.Rendered),
		Date:          post.Date,
		Modified:      modified,
		FeaturedImage: featuredImage,
		Author:        author,
		Category:      category,
		Categories:    categories,
		Tags:          tags,
		Yoast:         post.YoastHeadJSON,
	}
}

// MapMedia normalizes a raw media record.
func MapMedia(m domain.WPMedia) domain.MediaItem {
	return domain.MediaItem{
		ID:          m.ID,
		Title:       m.Title.Rendered,
		SourceURL:   m.SourceURL,
		AltText:     m.AltText,
		Caption:     m.Caption.Rendered,
		Description: m.Description.Rendered,
	}
}

// MediaFileName extracts the lowercase extension-less file name from a
// media source URL, for pattern matching against store names.
func MediaFileName(sourceURL string) string {
	if sourceURL == "" {
		return ""
	}
	parts := strings.Split(sourceURL, "/")
	name := strings.ToLower(parts[len(parts)-1])
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
