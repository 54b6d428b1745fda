package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/umkmkediri/storefront/config"
	httpDelivery "github.com/umkmkediri/storefront/internal/delivery/http"
	"github.com/umkmkediri/storefront/internal/domain"
	"github.com/umkmkediri/storefront/internal/infrastructure/cache"
	"github.com/umkmkediri/storefront/internal/infrastructure/wordpress"
	"github.com/umkmkediri/storefront/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting UMKM Storefront v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	store := newCacheStore(cfg)
	resolver := cache.NewResolver(store)

	signer := wordpress.NewOAuthSigner(cfg.WordPress.ConsumerKey, cfg.WordPress.ConsumerSecret)
	wpClient := wordpress.NewClient(cfg.WordPress.BaseURL, signer, cfg.RateLimit.Upstream)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		wpClient.SetDebug(true)
		log.Printf("WordPress client debug mode enabled")
	}

	if cfg.WordPress.BaseURL != "" {
		log.Printf("WordPress upstream configured: %s (signed: %v)", cfg.WordPress.BaseURL, cfg.WordPress.ConsumerKey != "")
	} else {
		log.Printf("WARNING: WordPress upstream NOT CONFIGURED - all endpoints will serve empty results")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(resolver, wpClient)
	contentService := usecase.NewContentService(resolver, wpClient)
	searchService := usecase.NewSearchService(resolver, wpClient, catalogService, contentService)
	homeService := usecase.NewHomeService(resolver, catalogService, searchService, contentService)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, searchService, homeService, contentService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newCacheStore builds the configured cache backend, falling back to the
// in-memory cache when redis is unreachable.
func newCacheStore(cfg *config.Config) domain.CacheRepository {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("WARNING: invalid redis URL, falling back to memory cache: %v", err)
			return cache.NewMemoryCache()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("WARNING: redis unreachable, falling back to memory cache: %v", err)
			return cache.NewMemoryCache()
		}

		log.Printf("Redis cache connected")
		return redisCache
	}
	return cache.NewMemoryCache()
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
