package batch

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ytsave/internal/engine"
)

// ProbeCache remembers probe results per URL so a URL listed twice, or a
// retried batch in the same process, is not probed again.
type ProbeCache struct {
	cache *gocache.Cache
}

// NewProbeCache returns a cache whose entries live for an hour.
func NewProbeCache() *ProbeCache {
	return NewProbeCacheTTL(time.Hour, 10*time.Minute)
}

// NewProbeCacheTTL returns a cache with the given TTL and cleanup interval.
func NewProbeCacheTTL(ttl, cleanupInterval time.Duration) *ProbeCache {
	return &ProbeCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get returns the cached probe for url.
func (c *ProbeCache) Get(url string) (engine.Info, bool) {
	if item, found := c.cache.Get(url); found {
		if info, ok := item.(engine.Info); ok {
			return info, true
		}
	}
	return engine.Info{}, false
}

// Set stores a probe result.
func (c *ProbeCache) Set(url string, info engine.Info) {
	c.cache.Set(url, info, gocache.DefaultExpiration)
}

// Len is the number of cached entries.
func (c *ProbeCache) Len() int {
	return c.cache.ItemCount()
}
