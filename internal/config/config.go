package config

import (
	"strings"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/learnhub/devserver/internal/dispatch"
)

const defaultListenHTTP = "127.0.0.1:8000"

// Config stores all the config options relevant to the development server.
type Config struct {
	General   General
	Dispatch  Dispatch
	App       App
	Listeners Listeners
	Log       Log
	RateLimit RateLimit
	Sentry    Sentry
	Server    Server
}

// General groups settings that are general to the server and can not
// be categorized under other head.
type General struct {
	MaxConns                   int
	MaxURILength               int
	MetricsAddress             string
	StatusPath                 string
	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool
	ShowVersion                bool

	CustomHeaders []string
}

// Dispatch groups the settings deciding which requests are answered from
// the document root
type Dispatch struct {
	DocumentRoot     string
	AdminPrefix      string
	StaticExtensions []string
	FollowSymlinks   bool
	StaticMaxAge     time.Duration
}

// App groups settings related to the application front controller
type App struct {
	Upstream string
	Timeout  time.Duration
}

// Listeners groups the addresses the server accepts connections on
type Listeners struct {
	HTTP  []string
	Proxy []string
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// RateLimit config struct
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// Server groups HTTP server settings
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	KeepAlive         time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			DisableCrossOriginRequests: *disableCORS,
			PropagateCorrelationID:     *propagateCorrID,
			ShowVersion:                *showVersion,
			CustomHeaders:              header.Split(),
		},
		Dispatch: Dispatch{
			DocumentRoot:     *documentRoot,
			AdminPrefix:      *adminPrefix,
			StaticExtensions: normalizeExtensions(staticExtensions.Split()),
			FollowSymlinks:   *followSymlinks,
			StaticMaxAge:     *staticMaxAge,
		},
		App: App{
			Upstream: *appUpstream,
			Timeout:  *appTimeout,
		},
		Listeners: Listeners{
			HTTP:  listenHTTP.Split(),
			Proxy: listenProxy.Split(),
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitIP,
			SourceIPBurst:          *rateLimitIPBurst,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnv,
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			KeepAlive:         *serverKeepAlive,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
	}

	if len(config.Dispatch.StaticExtensions) == 0 {
		config.Dispatch.StaticExtensions = dispatch.DefaultStaticExtensions()
	}

	if len(config.Listeners.HTTP) == 0 && len(config.Listeners.Proxy) == 0 {
		config.Listeners.HTTP = []string{defaultListenHTTP}
	}

	if config.General.ShowVersion {
		return config, nil
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// normalizeExtensions lower-cases extensions and drops a leading dot so that
// both "css" and ".CSS" can be passed on the command line
func normalizeExtensions(exts []string) []string {
	var result []string

	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			result = append(result, ext)
		}
	}

	return result
}

// LogConfig prints the loaded configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"admin-prefix":                  config.Dispatch.AdminPrefix,
		"app-timeout":                   config.App.Timeout,
		"app-upstream":                  config.App.Upstream,
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"document-root":                 config.Dispatch.DocumentRoot,
		"follow-symlinks":               config.Dispatch.FollowSymlinks,
		"listen-http":                   strings.Join(config.Listeners.HTTP, ","),
		"listen-proxy":                  strings.Join(config.Listeners.Proxy, ","),
		"log-format":                    config.Log.Format,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
		"static-extensions":             strings.Join(config.Dispatch.StaticExtensions, ","),
		"static-max-age":                config.Dispatch.StaticMaxAge,
		"status-path":                   config.General.StatusPath,
	}).Debug("Start development server with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments,
// environment variables or via config file, and populates a Config object
// with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
