package analytics

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const cacheSize = 128

// Cache holds computed dashboards for a bounded time, so the presentation
// layer does not recompute aggregations per request. Entries lag the store
// by at most the TTL; a successful ingestion run purges them early.
type Cache struct {
	lru *expirable.LRU[string, *Dashboard]
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, *Dashboard](cacheSize, nil, ttl)}
}

func (c *Cache) Get(key string) (*Dashboard, bool) {
	return c.lru.Get(key)
}

func (c *Cache) Add(key string, d *Dashboard) {
	c.lru.Add(key, d)
}

// Invalidate drops every cached result.
func (c *Cache) Invalidate() {
	c.lru.Purge()
}
