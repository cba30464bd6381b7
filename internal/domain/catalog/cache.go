package catalog

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

type cachedEntry struct {
	value     interface{}
	timestamp time.Time
}

// readCache is an expiring LRU in front of the catalog tables. Concurrent
// misses for the same key share one load.
type readCache struct {
	entries *lru.Cache
	loads   singleflight.Group
	expiry  time.Duration
}

func newReadCache(size int, expiry time.Duration) *readCache {
	if size <= 0 {
		size = 128
	}
	entries, _ := lru.New(size)
	return &readCache{entries: entries, expiry: expiry}
}

func (c *readCache) get(key string) (interface{}, bool) {
	cached, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := cached.(cachedEntry)
	if !ok || time.Since(entry.timestamp) >= c.expiry {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *readCache) add(key string, value interface{}) {
	c.entries.Add(key, cachedEntry{value: value, timestamp: time.Now()})
}

func (c *readCache) load(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}

	v, err, _ := c.loads.Do(key, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.add(key, v)
		return v, nil
	})
	return v, err
}
