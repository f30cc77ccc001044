package suggest

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rubiojr/falcony/pkg/log"
	"golang.org/x/sync/singleflight"
)

var logger = log.ForService("suggest")

// Fetcher returns completions for a partial query.
type Fetcher interface {
	Suggestions(ctx context.Context, query string) ([]string, error)
}

// cacheSize is the number of distinct prefixes kept by CachedFetcher.
const cacheSize = 512

// CachedFetcher shares backend replies across sessions.
type CachedFetcher struct {
	fetcher Fetcher
	cache   *expirable.LRU[string, []string]
	group   singleflight.Group
}

var _ Fetcher = (*CachedFetcher)(nil)

// NewCachedFetcher wraps f with a cache whose entries live for ttl. A zero
// ttl disables expiry.
func NewCachedFetcher(f Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		fetcher: f,
		cache:   expirable.NewLRU[string, []string](cacheSize, nil, ttl),
	}
}

// Suggestions implements Fetcher. Failures are not cached.
func (c *CachedFetcher) Suggestions(ctx context.Context, query string) ([]string, error) {
	if list, ok := c.cache.Get(query); ok {
		logger.Debugf("cache hit for %q", query)
		return append([]string(nil), list...), nil
	}

	v, err, shared := c.group.Do(query, func() (any, error) {
		list, err := c.fetcher.Suggestions(ctx, query)
		if err != nil {
			return nil, err
		}
		c.cache.Add(query, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debugf("shared in-flight fetch for %q", query)
	}
	return append([]string(nil), v.([]string)...), nil
}

// Purge drops every cached reply.
func (c *CachedFetcher) Purge() {
	c.cache.Purge()
}
