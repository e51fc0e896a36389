package ratelimiter

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"gitlab.com/learnhub/devserver/internal/lru"
	"gitlab.com/learnhub/devserver/internal/request"
)

const (
	// DefaultSourceIPLimitPerSecond is the limit per second that rate.Limiter
	// needs to generate tokens every second.
	// The default value is 20 requests per second.
	DefaultSourceIPLimitPerSecond = 20.0
	// DefaultSourceIPBurstSize is the maximum burst allowed per rate limiter.
	// E.g. The first 100 requests within 1s will succeed, but the 101st will fail.
	DefaultSourceIPBurstSize = 100

	// DefaultSourceIPCacheSize is the number of source IPs tracked at once
	DefaultSourceIPCacheSize = 5000

	defaultCacheExpirationInterval = time.Minute
)

// KeyFunc returns the key a request is rate limited by
type KeyFunc func(*http.Request) string

// Option function to configure a RateLimiter
type Option func(*RateLimiter)

// RateLimiter holds an LRU cache of token buckets, one per key. Keys are
// derived from requests by a KeyFunc, the source IP by default.
type RateLimiter struct {
	name           string
	now            func() time.Time
	keyFunc        KeyFunc
	limitPerSecond float64
	burstSize      int
	cacheMaxSize   int64

	cachedEntriesMetric  *prometheus.GaugeVec
	cachedRequestsMetric *prometheus.CounterVec
	blockedCount         *prometheus.CounterVec

	cache *lru.Cache
}

// New creates a new RateLimiter with default values that can be configured via Option functions
func New(name string, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		name:           name,
		now:            time.Now,
		keyFunc:        request.GetRemoteAddrWithoutPort,
		limitPerSecond: DefaultSourceIPLimitPerSecond,
		burstSize:      DefaultSourceIPBurstSize,
		cacheMaxSize:   DefaultSourceIPCacheSize,
	}

	for _, opt := range opts {
		opt(rl)
	}

	if rl.cachedEntriesMetric == nil {
		rl.cachedEntriesMetric = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name + "_cached_entries"}, []string{"op"})
	}
	if rl.cachedRequestsMetric == nil {
		rl.cachedRequestsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name + "_cache_requests"}, []string{"op", "cache"})
	}

	rl.cache = lru.New(name, rl.cacheMaxSize, defaultCacheExpirationInterval, rl.cachedEntriesMetric, rl.cachedRequestsMetric)

	return rl
}

// WithNow replaces the RateLimiter now function
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithLimitPerSecond configures the number of tokens added to each bucket per second
func WithLimitPerSecond(limit float64) Option {
	return func(rl *RateLimiter) {
		rl.limitPerSecond = limit
	}
}

// WithBurstSize configures the size of each bucket
func WithBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.burstSize = burst
	}
}

// WithKeyFunc configures what requests are grouped by
func WithKeyFunc(f KeyFunc) Option {
	return func(rl *RateLimiter) {
		rl.keyFunc = f
	}
}

// WithCacheMaxSize configures the maximum number of keys tracked at once
func WithCacheMaxSize(size int64) Option {
	return func(rl *RateLimiter) {
		rl.cacheMaxSize = size
	}
}

// WithCachedEntriesMetric configures the gauge reporting the cache size
func WithCachedEntriesMetric(m *prometheus.GaugeVec) Option {
	return func(rl *RateLimiter) {
		rl.cachedEntriesMetric = m
	}
}

// WithCachedRequestsMetric configures the counter reporting cache hits and misses
func WithCachedRequestsMetric(m *prometheus.CounterVec) Option {
	return func(rl *RateLimiter) {
		rl.cachedRequestsMetric = m
	}
}

// WithBlockedCountMetric configures the counter of blocked requests
func WithBlockedCountMetric(m *prometheus.CounterVec) Option {
	return func(rl *RateLimiter) {
		rl.blockedCount = m
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	limiterI, _ := rl.cache.FindOrFetch(key, func() (interface{}, error) {
		return rate.NewLimiter(rate.Limit(rl.limitPerSecond), rl.burstSize), nil
	})

	return limiterI.(*rate.Limiter)
}

// RequestAllowed reports whether the bucket of r's key still holds a token
func (rl *RateLimiter) RequestAllowed(r *http.Request) bool {
	// AllowN allows us to use the rl.now function, so we can test this more easily.
	return rl.limiter(rl.keyFunc(r)).AllowN(rl.now(), 1)
}
