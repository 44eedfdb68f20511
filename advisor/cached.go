package advisor

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 128
	DefaultCacheTTL  = 30 * time.Minute
)

// Cached memoizes results of an inner generator in an expirable LRU keyed on
// the full request. Fallback results are not cached so a recovered model tier
// is used as soon as it is back.
type Cached struct {
	inner Generator
	lru   *expirable.LRU[string, Result]
}

var _ Generator = (*Cached)(nil)

// NewCached wraps inner. Non-positive size or ttl use the defaults.
func NewCached(inner Generator, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{inner: inner, lru: expirable.NewLRU[string, Result](size, nil, ttl)}
}

// Generate implements Generator.
func (c *Cached) Generate(ctx context.Context, req Request) (Result, error) {
	key := req.cacheKey()
	if res, ok := c.lru.Get(key); ok {
		return res, nil
	}
	res, err := c.inner.Generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if res.Source != SourceFallback {
		c.lru.Add(key, res)
	}
	return res, nil
}

// Len reports the number of cached results.
func (c *Cached) Len() int { return c.lru.Len() }

// Purge drops every cached result.
func (c *Cached) Purge() { c.lru.Purge() }
