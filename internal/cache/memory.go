package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/HectorTTL/mailsift/internal/model"
)

// MemoryCache implements in-memory result caching with per-entry TTL
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached verification result
func (c *MemoryCache) Get(key string) (model.VerificationResult, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(model.VerificationResult), true
	}
	return model.VerificationResult{}, false
}

// Set stores a verification result with the given TTL
func (c *MemoryCache) Set(key string, value model.VerificationResult, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Clear removes all cached results
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
