package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	documentRoot     = flag.String("document-root", "public", "The directory static assets are served from")
	adminPrefix      = flag.String("admin-prefix", "/admin", "Requests under this path prefix are always handled by the application")
	followSymlinks   = flag.Bool("follow-symlinks", true, "Serve files reached through symbolic links inside the document root")
	staticMaxAge     = flag.Duration("static-max-age", 0, "Cache-Control max-age sent with static files, 0 sends no-cache")
	appUpstream      = flag.String("app-upstream", "http://127.0.0.1:9000", "URL of the application front controller requests are delegated to")
	appTimeout       = flag.Duration("app-timeout", 60*time.Second, "Maximum time to wait for the application to send response headers")
	statusPath       = flag.String("status-path", "", "The url path for a status page, e.g., /-/status")
	metricsAddress   = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	sentryDSN        = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnv        = flag.String("sentry-environment", "", "The environment for sentry crash reporting")
	logFormat        = flag.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose       = flag.Bool("log-verbose", false, "Verbose logging")
	maxConns         = flag.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP or proxy listeners, 0 for no limit")
	maxURILength     = flag.Int("max-uri-length", 2048, "Limit the length of URI, 0 for unlimited.")
	propagateCorrID  = flag.Bool("propagate-correlation-id", true, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")
	disableCORS      = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	rateLimitIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	// HTTP server timeouts
	serverReadTimeout       = flag.Duration("server-read-timeout", 30*time.Second, "ReadTimeout is the maximum duration for reading the entire request, including the body. A zero or negative value means there will be no timeout.")
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", 5*time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverWriteTimeout      = flag.Duration("server-write-timeout", 0, "WriteTimeout is the maximum duration before timing out writes of the response. A zero or negative value means there will be no timeout.")
	serverKeepAlive         = flag.Duration("server-keep-alive", 3*time.Minute, "KeepAlive specifies the keep-alive period for network connections accepted by the listeners.")
	serverShutdownTimeout   = flag.Duration("server-shutdown-timeout", 10*time.Second, "Time to wait for in-flight requests when shutting down (default: 10s)")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	listenHTTP       = MultiStringFlag{separator: ","}
	listenProxy      = MultiStringFlag{separator: ","}
	staticExtensions = MultiStringFlag{separator: ","}

	header = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	flag.Var(&listenHTTP, "listen-http", "The address(es) to listen on for HTTP requests (default 127.0.0.1:8000)")
	flag.Var(&listenProxy, "listen-proxy", "The address(es) to listen on for PROXY protocol requests (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt)")
	flag.Var(&staticExtensions, "static-extensions", "The file extension(s) served straight from the document root when the file exists")
	flag.Var(&header, "header", "The additional http header(s) that should be send to the client")

	// read from -config=/path/to/devserver-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}
