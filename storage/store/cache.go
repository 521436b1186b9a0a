package store

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/storage"
)

const DefaultCacheSize = uint(1000)

type retrieveFunc[K comparable, V any] func(r storage.Reader, key K) (V, error)

func withLimit[K comparable, V any](limit uint) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.limit = limit
	}
}

func withRetrieve[K comparable, V any](retrieve retrieveFunc[K, V]) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.retrieve = retrieve
	}
}

// withAdmit restricts which retrieved values are cached. Values which can
// still change must not be admitted.
func withAdmit[K comparable, V any](admit func(V) bool) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.admit = admit
	}
}

func noRetrieve[K comparable, V any](storage.Reader, K) (V, error) {
	var nullV V
	return nullV, fmt.Errorf("no retrieve function for cache get available")
}

func admitAll[V any](V) bool {
	return true
}

// Cache is a size-limited LRU cache in front of a database table.
// Entries are only added once the data they mirror is committed.
type Cache[K comparable, V any] struct {
	metrics  module.CacheMetrics
	limit    uint
	retrieve retrieveFunc[K, V]
	admit    func(V) bool
	resource string
	cache    *lru.Cache[K, V]
}

func newCache[K comparable, V any](collector module.CacheMetrics, resourceName string, options ...func(*Cache[K, V])) *Cache[K, V] {
	c := Cache[K, V]{
		metrics:  collector,
		limit:    DefaultCacheSize,
		retrieve: noRetrieve[K, V],
		admit:    admitAll[V],
		resource: resourceName,
	}
	for _, option := range options {
		option(&c)
	}
	c.cache, _ = lru.New[K, V](int(c.limit))
	c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	return &c
}

// IsCached returns true if the key exists in the cache.
// It DOES NOT check whether the key exists in the underlying data store.
func (c *Cache[K, V]) IsCached(key K) bool {
	return c.cache.Contains(key)
}

// Peek returns the cached value for key without touching the database.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	resource, cached := c.cache.Get(key)
	if cached {
		c.metrics.CacheHit(c.resource)
	}
	return resource, cached
}

// Get will try to retrieve the resource from cache first, and then from the
// injected retrieve function. r must read committed data only, as admitted
// values are cached.
// Expected errors during normal operations:
//   - storage.ErrNotFound if the key is unknown
func (c *Cache[K, V]) Get(r storage.Reader, key K) (V, error) {

	// check if we have it in the cache
	resource, cached := c.cache.Get(key)
	if cached {
		c.metrics.CacheHit(c.resource)
		return resource, nil
	}

	// get it from the database
	resource, err := c.retrieve(r, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.metrics.CacheNotFound(c.resource)
		}
		var nullV V
		return nullV, fmt.Errorf("could not retrieve resource: %w", err)
	}

	c.metrics.CacheMiss(c.resource)

	if c.admit(resource) {
		c.Insert(key, resource)
	}

	return resource, nil
}

// Insert adds a resource to the cache, evicting the least recently used
// entry if the cache is full.
func (c *Cache[K, V]) Insert(key K, resource V) {
	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}
}

// InsertTx caches the resource once the batch commits successfully.
func (c *Cache[K, V]) InsertTx(rw storage.ReaderBatchWriter, key K, resource V) {
	if !c.admit(resource) {
		return
	}
	rw.AddCallback(func(err error) {
		if err == nil {
			c.Insert(key, resource)
		}
	})
}

// Remove removes the resource with the given key from the cache.
func (c *Cache[K, V]) Remove(key K) {
	c.cache.Remove(key)
	c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
}

// PurgeTx empties the cache once the batch commits successfully.
func (c *Cache[K, V]) PurgeTx(rw storage.ReaderBatchWriter) {
	rw.AddCallback(func(err error) {
		if err == nil {
			c.cache.Purge()
			c.metrics.CacheEntries(c.resource, 0)
		}
	})
}
