package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	WordPress WordPressConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WordPressConfig holds the upstream WordPress/Dokan/WooCommerce configuration.
// BaseURL is the WordPress site root (no trailing slash, no /wp-json).
// ConsumerKey/ConsumerSecret are the WooCommerce REST credentials used for
// one-legged OAuth signing; when absent, requests go out unsigned.
type WordPressConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "redis"
	RedisURL string `mapstructure:"redis_url"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Upstream float64 `mapstructure:"upstream"` // requests/sec against WordPress
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/umkm-storefront/")

	// Environment variable settings
	v.SetEnvPrefix("UMKM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	warnOnDegradedUpstream(&config)

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// WordPress defaults. Empty on purpose: viper only unmarshals keys it
	// knows about, so env-only keys need a default to be visible at all.
	v.SetDefault("wordpress.base_url", "")
	v.SetDefault("wordpress.consumer_key", "")
	v.SetDefault("wordpress.consumer_secret", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.upstream", 10.0)
}

// validate validates the configuration.
// A missing WordPress base URL is deliberately NOT an error: every exposed
// operation degrades to its neutral result when the upstream is unconfigured.
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.RateLimit.Upstream <= 0 {
		return fmt.Errorf("upstream rate limit must be positive, got: %f", config.RateLimit.Upstream)
	}

	return nil
}

// warnOnDegradedUpstream logs the degradation conditions once at startup.
func warnOnDegradedUpstream(config *Config) {
	if config.WordPress.BaseURL == "" {
		log.Printf("[CONFIG] CRITICAL: WordPress base URL is not set (UMKM_WORDPRESS_BASE_URL) - all content operations will return empty results")
	}
	if config.WordPress.ConsumerKey == "" || config.WordPress.ConsumerSecret == "" {
		log.Printf("[CONFIG] WARNING: WooCommerce API credentials are missing - upstream requests will be unsigned")
	}
}
