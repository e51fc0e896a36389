package lru

import (
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// getsPerPromote is the number of gets after which an item is moved to the
// front of the LRU list
const getsPerPromote = 64

// itemsToPruneDiv prunes 1/16 of the items when the cache is full
const itemsToPruneDiv = 16

// Cache is a size bounded LRU cache with expiring items which reports its
// size and hit ratio to Prometheus.
type Cache struct {
	op            string
	ttl           time.Duration
	cache         *ccache.Cache
	cachedEntries *prometheus.GaugeVec
	cacheRequests *prometheus.CounterVec
}

// New creates an LRU cache holding at most maxEntries items for ttl each.
// op labels the metrics of this cache.
func New(op string, maxEntries int64, ttl time.Duration, cachedEntries *prometheus.GaugeVec, cacheRequests *prometheus.CounterVec) *Cache {
	prune := uint32(maxEntries) / itemsToPruneDiv
	if prune == 0 {
		prune = 1
	}

	configuration := ccache.Configure()
	configuration.MaxSize(maxEntries)
	configuration.ItemsToPrune(prune)
	configuration.GetsPerPromote(getsPerPromote)
	configuration.OnDelete(func(*ccache.Item) {
		cachedEntries.WithLabelValues(op).Dec()
	})

	return &Cache{
		op:            op,
		ttl:           ttl,
		cache:         ccache.New(configuration),
		cachedEntries: cachedEntries,
		cacheRequests: cacheRequests,
	}
}

// FindOrFetch returns the cached value for key when it exists and has not
// expired. Otherwise it stores and returns the result of fetchFn.
func (c *Cache) FindOrFetch(key string, fetchFn func() (interface{}, error)) (interface{}, error) {
	item := c.cache.Get(key)

	if item != nil && !item.Expired() {
		c.cacheRequests.WithLabelValues(c.op, "hit").Inc()
		return item.Value(), nil
	}

	value, err := fetchFn()
	if err != nil {
		c.cacheRequests.WithLabelValues(c.op, "error").Inc()
		return nil, err
	}

	c.cacheRequests.WithLabelValues(c.op, "miss").Inc()
	c.cachedEntries.WithLabelValues(c.op).Inc()

	c.cache.Set(key, value, c.ttl)

	return value, nil
}

// Stop the background worker of the underlying cache
func (c *Cache) Stop() {
	c.cache.Stop()
}
