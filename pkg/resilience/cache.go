package resilience

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// FallbackOptions controls how stale a cached value may be served.
type FallbackOptions struct {
	// MaxAge marks entries older than this as stale. Zero means never stale.
	MaxAge time.Duration
	// ReturnStaleOnError serves a stale entry when the fresh fetch fails
	// instead of propagating the error.
	ReturnStaleOnError bool
}

type cachedEntry struct {
	value    interface{}
	storedAt time.Time
}

// FallbackCache is a process-local cache used to survive upstream outages:
// a failed fetch degrades to the most recent known-good value, never to
// incorrect data. Entries are kept until overwritten.
type FallbackCache struct {
	store *cache.Cache
}

func NewFallbackCache() *FallbackCache {
	return &FallbackCache{
		store: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// GetOrFetch attempts a fresh fetch first. On success the cache entry is
// refreshed; on failure the cached value is served when allowed by opts,
// otherwise the fetch error propagates.
func (c *FallbackCache) GetOrFetch(key string, fetch func() (interface{}, error), opts FallbackOptions) (interface{}, error) {
	fresh, err := fetch()
	if err == nil {
		c.store.Set(key, cachedEntry{value: fresh, storedAt: time.Now()}, cache.NoExpiration)
		return fresh, nil
	}

	if raw, found := c.store.Get(key); found {
		entry := raw.(cachedEntry)
		stale := opts.MaxAge > 0 && time.Since(entry.storedAt) > opts.MaxAge
		if !stale || opts.ReturnStaleOnError {
			return entry.value, nil
		}
	}

	return nil, err
}

// Invalidate drops a cached entry.
func (c *FallbackCache) Invalidate(key string) {
	c.store.Delete(key)
}
