package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DispatchDecisions counts the dispatch decisions taken, by action and by
	// the rule that produced them
	DispatchDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_dispatch_decisions_total",
		Help: "The number of requests dispatched to static files or to the application",
	}, []string{"action", "rule"})

	// StaticFileSize is the size of the static files served from the document root
	StaticFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devserver_static_file_size_bytes",
		Help:    "The size in bytes of the static files served",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// StaticFileOpenErrors counts failures to open a file the dispatcher
	// decided to serve
	StaticFileOpenErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devserver_static_file_open_errors_total",
		Help: "The number of static files that could not be opened after being resolved",
	})

	// AppRequests counts the requests proxied to the application front controller
	AppRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_app_requests_total",
		Help: "The number of requests proxied to the application, by response status",
	}, []string{"status_code"})

	// AppRequestDuration is the time it takes the application to respond
	AppRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "devserver_app_request_duration_seconds",
		Help: "The time (in seconds) it takes the application to respond",
	}, []string{"status_code"})

	// AppTraceDuration records the httptrace phases of requests to the application
	AppTraceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devserver_app_trace_duration_seconds",
		Help:    "httptrace phase durations of requests proxied to the application",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"request_stage"})

	// RateLimitCachedEntries is the number of entries in the rate limiter cache
	RateLimitCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "devserver_rate_limit_cached_entries",
		Help: "The number of entries in the rate limiter cache",
	}, []string{"op"})

	// RateLimitCacheRequests is the number of rate limiter cache lookups
	RateLimitCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_rate_limit_cache_requests",
		Help: "The number of rate limiter cache hits and misses",
	}, []string{"op", "cache"})

	// RateLimitBlockedCount is the number of requests blocked by the rate limiter
	RateLimitBlockedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_rate_limit_blocked_count",
		Help: "The number of requests that have been blocked by the rate limiter",
	}, []string{"limit_name"})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		DispatchDecisions,
		StaticFileSize,
		StaticFileOpenErrors,
		AppRequests,
		AppRequestDuration,
		AppTraceDuration,
		RateLimitCachedEntries,
		RateLimitCacheRequests,
		RateLimitBlockedCount,
	)
}
