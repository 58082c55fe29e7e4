package backtest

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

const defaultCacheTTL = 15 * time.Minute

// ResultCache keeps completed backtest results in memory so re-running an
// unchanged filter over an unchanged range returns the cached summary
type ResultCache struct {
	cache     *cache.Cache
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a result cache with the given TTL
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ResultCache{
		cache: cache.New(ttl, ttl*2),
	}
}

// Get retrieves a cached result by key
func (c *ResultCache) Get(key string) (*Result, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		atomic.AddUint64(&c.missCount, 1)
		return nil, false
	}
	atomic.AddUint64(&c.hitCount, 1)
	return v.(*Result), true
}

// Put stores a result under the given key
func (c *ResultCache) Put(key string, result *Result) {
	c.cache.SetDefault(key, result)
}

// Stats returns hit and miss counts
func (c *ResultCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hitCount), atomic.LoadUint64(&c.missCount)
}

// Flush drops all cached results
func (c *ResultCache) Flush() {
	c.cache.Flush()
}
