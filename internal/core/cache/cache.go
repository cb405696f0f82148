// Package cache provides a small TTL key-value store.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an instance of a key-value store with contents specific to
// each instance and are not shared between instances.
type Cache struct {
	cacheInstance *gocache.Cache
}

// New returns a Cache whose entries expire after defaultTTL. A defaultTTL of
// -1 means entries never expire unless given their own ttl.
func New(defaultTTL time.Duration) *Cache {
	cleanup := defaultTTL
	if cleanup <= 0 || cleanup > time.Minute {
		cleanup = time.Minute
	}
	return &Cache{cacheInstance: gocache.New(defaultTTL, cleanup)}
}

// Put sets a key/value pair in the cache with an optional duration. Passing 0 for
// ttl will cause the default expiration to be used and -1 will not set a ttl.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) {
	c.cacheInstance.Set(key, value, ttl)
}

// Get fetches a value from the cache, returning the value as well as whether
// or not the value was found (semantics similar to map).
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cacheInstance.Get(key)
}

// Has reports whether key is present and unexpired.
func (c *Cache) Has(key string) bool {
	_, ok := c.cacheInstance.Get(key)
	return ok
}

func (c *Cache) Delete(key string) {
	c.cacheInstance.Delete(key)
}

// Len returns the number of items in the cache, including expired items that
// have not been cleaned up yet.
func (c *Cache) Len() int {
	return c.cacheInstance.ItemCount()
}
