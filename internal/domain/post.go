package domain

import "encoding/json"

// Rendered is WordPress's {"rendered": "..."} wrapper.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// WPPost is the raw WordPress post record (wp/v2/posts).
type WPPost struct {
	ID            int             `json:"id"`
	Slug          string          `json:"slug"`
	Title         Rendered        `json:"title"`
	Content       Rendered        `json:"content"`
	Excerpt       Rendered        `json:"excerpt"`
	Date          string          `json:"date"`
	Modified      string          `json:"modified"`
	FeaturedMedia int             `json:"featured_media"`
	Categories    []int           `json:"categories"`
	Tags          []int           `json:"tags"`
	YoastHeadJSON json.RawMessage `json:"yoast_head_json,omitempty"`
	Embedded      *WPEmbedded     `json:"_embedded,omitempty"`
}

// WPEmbedded is the _embedded block of a post fetched with ?_embed.
type WPEmbedded struct {
	FeaturedMedia []WPMedia        `json:"wp:featuredmedia,omitempty"`
	Author        []WPAuthor       `json:"author,omitempty"`
	Terms         [][]PostCategory `json:"wp:term,omitempty"`
}

// WPAuthor is the embedded author record of a post.
type WPAuthor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WPMedia is a raw WordPress media record (wp/v2/media). MediaDetails is
// kept opaque; the featured-image chain probes it for size variants.
type WPMedia struct {
	ID           int             `json:"id"`
	SourceURL    string          `json:"source_url"`
	AltText      string          `json:"alt_text"`
	Title        Rendered        `json:"title"`
	Caption      Rendered        `json:"caption"`
	Description  Rendered        `json:"description"`
	MediaDetails json.RawMessage `json:"media_details,omitempty"`
}

// PostCategory is a WordPress taxonomy term (blog category or tag).
type PostCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is the normalized blog post: every field populated, HTML entities
// unescaped in the text fields, featured image resolved through the
// priority chain.
type Post struct {
	ID            int             `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Excerpt       string          `json:"excerpt"`
	Date          string          `json:"date"`
	Modified      string          `json:"modified"`
	FeaturedImage string          `json:"featuredImage"`
	Author        string          `json:"author"`
	Category      *PostCategory   `json:"category"`
	Categories    []PostCategory  `json:"categories"`
	Tags          []PostCategory  `json:"tags"`
	Yoast         json.RawMessage `json:"yoast,omitempty"`
}

// PostList is a paginated post listing with totals from the upstream
// X-WP-Total / X-WP-TotalPages headers.
type PostList struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// MediaItem is a normalized media record for the media-by-title lookup.
type MediaItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	SourceURL   string `json:"source_url"`
	AltText     string `json:"alt_text"`
	Caption     string `json:"caption,omitempty"`
	Description string `json:"description,omitempty"`
}

// VendorImage is a gallery image discovered in the media library by the
// store-name pattern search.
type VendorImage struct {
	ID        int    `json:"id,omitempty"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
	Title     string `json:"title"`
}
