package handlers

import (
	"net/http"

	"gitlab.com/learnhub/devserver/internal/config"
	"gitlab.com/learnhub/devserver/internal/ratelimiter"
	"gitlab.com/learnhub/devserver/metrics"
)

// Ratelimiter configures the source IP ratelimiter middleware. A limit of 0
// disables it.
func Ratelimiter(handler http.Handler, config *config.RateLimit) http.Handler {
	if config.SourceIPLimitPerSecond == 0 {
		return handler
	}

	sourceIPLimiter := ratelimiter.New(
		"http_requests_by_source_ip",
		ratelimiter.WithCacheMaxSize(ratelimiter.DefaultSourceIPCacheSize),
		ratelimiter.WithCachedEntriesMetric(metrics.RateLimitCachedEntries),
		ratelimiter.WithCachedRequestsMetric(metrics.RateLimitCacheRequests),
		ratelimiter.WithBlockedCountMetric(metrics.RateLimitBlockedCount),
		ratelimiter.WithLimitPerSecond(config.SourceIPLimitPerSecond),
		ratelimiter.WithBurstSize(config.SourceIPBurst),
	)

	return sourceIPLimiter.Middleware(handler)
}
