package cache

import (
	"context"
	"time"
)

// Cache is the flat TTL cache consumed by the passthrough proxy routes.
// This abstraction allows swapping between the database-backed cache
// (default), Redis, and an in-memory cache without changing handlers.
//
// Implementations never return expired values: expiry is checked at read
// time, independent of any background eviction.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL, overwriting any previous
	// entry for the key.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}

// CacheError is a sentinel error type for cache conditions.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found or had expired.
const ErrCacheMiss CacheError = "cache miss"
