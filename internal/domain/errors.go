package domain

import "errors"

var (
	// ErrNotFound is returned when an upstream resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when a WordPress API request fails
	ErrUpstreamFailure = errors.New("upstream WordPress request failed")

	// ErrUpstreamNotConfigured is returned when the WordPress base URL is unset.
	// Exposed operations convert this into their neutral result.
	ErrUpstreamNotConfigured = errors.New("WordPress base URL not configured")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
