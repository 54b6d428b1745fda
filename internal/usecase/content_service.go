package usecase

import (
	"context"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
	"github.com/umkmkediri/storefront/internal/infrastructure/wordpress"
)

// ContentService exposes the blog and media-library read operations.
type ContentService struct {
	resolver *cache.Resolver
	wp       domain.WordPressClient
}

// NewContentService creates a content service.
func NewContentService(resolver *cache.Resolver, wp domain.WordPressClient) *ContentService {
	return &ContentService{resolver: resolver, wp: wp}
}

// GetPost returns a single normalized blog post by slug, nil on absence or
// upstream failure. The featured media is fetched separately because the
// single-post path does not request embeds.
func (s *ContentService) GetPost(ctx context.Context, slug string) *domain.Post {
	if slug == "" || !s.wp.Configured() {
		return nil
	}

	key := cache.NewKey("wp_post").With("slug", slug)
	post, err := cache.Resolve(ctx, s.resolver, key, ttlPosts, func(ctx context.Context) (*domain.Post, error) {
		posts, _, err := s.wp.ListPosts(ctx, domain.PostListParams{Slug: slug})
		if err != nil {
			return nil, err
		}
		if len(posts) == 0 {
			return nil, nil
		}

		raw := posts[0]
		s.attachFeaturedMedia(ctx, &raw)
		mapped := wordpress.MapPost(raw)
		return &mapped, nil
	})
	if err != nil {
		log.Printf("[GetPost] slug %q: %v", slug, err)
		return nil
	}
	return post
}

// attachFeaturedMedia resolves the post's featured media into the embedded
// block so the mapping chain can use it. Media failures degrade silently;
// the mapper falls back to the yoast og:image.
func (s *ContentService) attachFeaturedMedia(ctx context.Context, post *domain.WPPost) {
	if post.FeaturedMedia == 0 {
		return
	}
	if post.Embedded != nil && len(post.Embedded.FeaturedMedia) > 0 {
		return
	}
	media, err := s.wp.GetMedia(ctx, post.FeaturedMedia)
	if err != nil {
		log.Printf("[attachFeaturedMedia] post %d media %d: %v", post.ID, post.FeaturedMedia, err)
		return
	}
	if post.Embedded == nil {
		post.Embedded = &domain.WPEmbedded{}
	}
	post.Embedded.FeaturedMedia = []domain.WPMedia{*media}
}

// GetPosts returns a page of normalized posts, newest first, with totals
// from the upstream pagination headers.
func (s *ContentService) GetPosts(ctx context.Context, page, perPage int) domain.PostList {
	neutral := domain.PostList{Posts: []domain.Post{}}
	if !s.wp.Configured() {
		return neutral
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	key := cache.NewKey("wp_posts").WithInt("page", page).WithInt("per_page", perPage)
	result, err := cache.Resolve(ctx, s.resolver, key, ttlPosts, func(ctx context.Context) (domain.PostList, error) {
		raw, info, err := s.wp.ListPosts(ctx, domain.PostListParams{Page: page, PerPage: perPage, Embed: true})
		if err != nil {
			return neutral, err
		}

		// Listings requested with _embed usually carry their media, but
		// some installs strip it; fill the gaps concurrently.
		g, gctx := errgroup.WithContext(ctx)
		for i := range raw {
			g.Go(func() error {
				s.attachFeaturedMedia(gctx, &raw[i])
				return nil
			})
		}
		_ = g.Wait()

		posts := make([]domain.Post, 0, len(raw))
		for _, p := range raw {
			posts = append(posts, wordpress.MapPost(p))
		}
		return domain.PostList{Posts: posts, Total: info.Total, TotalPages: info.TotalPages}, nil
	})
	if err != nil {
		log.Printf("[GetPosts] page %d: %v", page, err)
		return neutral
	}
	return result
}

// GetPostCategories lists the blog taxonomy terms.
func (s *ContentService) GetPostCategories(ctx context.Context) []domain.PostCategory {
	if !s.wp.Configured() {
		return []domain.PostCategory{}
	}

	key := cache.NewKey("wp_post_categories")
	categories, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) ([]domain.PostCategory, error) {
		return s.wp.ListPostCategories(ctx)
	})
	if err != nil {
		log.Printf("[GetPostCategories] %v", err)
		return []domain.PostCategory{}
	}
	if categories == nil {
		return []domain.PostCategory{}
	}
	return categories
}

// GetPostCategoryBySlug resolves one blog category by slug, nil when
// absent.
func (s *ContentService) GetPostCategoryBySlug(ctx context.Context, slug string) *domain.PostCategory {
	for _, category := range s.GetPostCategories(ctx) {
		if category.Slug == slug {
			return &category
		}
	}
	return nil
}

// GetMediaByTitle searches the media library and returns the first item
// whose title or file name contains the query, nil when nothing matches.
func (s *ContentService) GetMediaByTitle(ctx context.Context, title string) *domain.MediaItem {
	if title == "" || !s.wp.Configured() {
		return nil
	}

	key := cache.NewKey("wp_media_by_title").With("title", title)
	item, err := cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) (*domain.MediaItem, error) {
		media, err := s.wp.SearchMedia(ctx, domain.MediaSearchParams{
			Search:  title,
			PerPage: 10,
			OrderBy: "title",
			Order:   "asc",
		})
		if err != nil {
			return nil, err
		}

		lowered := strings.ToLower(title)
		for _, m := range media {
			if strings.Contains(strings.ToLower(m.Title.Rendered), lowered) ||
				strings.Contains(wordpress.MediaFileName(m.SourceURL), lowered) {
				mapped := wordpress.MapMedia(m)
				return &mapped, nil
			}
		}
		return nil, nil
	})
	if err != nil {
		log.Printf("[GetMediaByTitle] %q: %v", title, err)
		return nil
	}
	return item
}

var nonWordRegex = regexp.MustCompile(`[^\w\s]`)

// mediaPatterns derives the file-name patterns vendor gallery images are
// uploaded under: the store name lowercased with punctuation and spaces
// removed, suffixed 1..3.
func mediaPatterns(storeName string) []string {
	base := strings.ToLower(storeName)
	base = nonWordRegex.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, " ", "")
	if base == "" {
		return nil
	}
	return []string{base + "1", base + "2", base + "3"}
}

// GetVendorImages collects the gallery images uploaded for a store,
// matched by the naming convention {name}1..{name}3, at most two per
// pattern. Pattern searches that fail degrade to skipped.
func (s *ContentService) GetVendorImages(ctx context.Context, storeName string) []domain.VendorImage {
	images := []domain.VendorImage{}
	if !s.wp.Configured() {
		return images
	}

	for _, pattern := range mediaPatterns(storeName) {
		matches, err := s.searchMediaByPattern(ctx, pattern, 2)
		if err != nil {
			log.Printf("[GetVendorImages] pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			images = append(images, domain.VendorImage{
				ID:        m.ID,
				SourceURL: m.SourceURL,
				AltText:   m.AltText,
				Title:     m.Title.Rendered,
			})
		}
	}
	return images
}

// GetVendorStoreImage returns the URL of the store's primary gallery image
// (the {name}1 upload), empty when none exists.
func (s *ContentService) GetVendorStoreImage(ctx context.Context, storeName string) string {
	patterns := mediaPatterns(storeName)
	if len(patterns) == 0 || !s.wp.Configured() {
		return ""
	}
	matches, err := s.searchMediaByPattern(ctx, patterns[0], 1)
	if err != nil {
		log.Printf("[GetVendorStoreImage] %q: %v", storeName, err)
		return ""
	}
	if len(matches) == 0 {
		return ""
	}
	return matches[0].SourceURL
}

// searchMediaByPattern searches the media library for a file-name pattern
// and keeps items whose file name or title contains it, up to limit.
func (s *ContentService) searchMediaByPattern(ctx context.Context, pattern string, limit int) ([]domain.WPMedia, error) {
	key := cache.NewKey("wp_media_pattern").With("pattern", pattern).WithInt("limit", limit)
	return cache.Resolve(ctx, s.resolver, key, ttlSearch, func(ctx context.Context) ([]domain.WPMedia, error) {
		media, err := s.wp.SearchMedia(ctx, domain.MediaSearchParams{Search: pattern, PerPage: 5})
		if err != nil {
			return nil, err
		}

		matches := make([]domain.WPMedia, 0, limit)
		for _, m := range media {
			if len(matches) >= limit {
				break
			}
			if strings.Contains(wordpress.MediaFileName(m.SourceURL), pattern) ||
				strings.Contains(strings.ToLower(m.Title.Rendered), pattern) {
				matches = append(matches, m)
			}
		}
		return matches, nil
	})
}
