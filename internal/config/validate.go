package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/learnhub/devserver/internal/customheaders"
)

var (
	ErrNoListener                 = errors.New("no listener defined, please specify at least one --listen-* flag")
	ErrDocumentRootNotDirectory   = errors.New("document-root must be an existing directory")
	ErrAppUpstreamUnsupported     = errors.New("app-upstream scheme must be either http:// or https://")
	ErrAppUpstreamNoHost          = errors.New("app-upstream must include a host")
	ErrAppInvalidTimeout          = errors.New("app-timeout must be greater than 0")
	ErrAdminPrefixInvalid         = errors.New("admin-prefix must start with / and must not end with /")
	ErrNoStaticExtensions         = errors.New("static-extensions must contain at least one extension")
	ErrInvalidLogFormat           = errors.New("log-format must be either 'text' or 'json'")
	ErrInvalidRateLimitBurst      = errors.New("rate-limit-source-ip-burst must be greater than 0 when rate limiting is enabled")
	ErrInvalidStatusPath          = errors.New("status-path must start with /")
	ErrStatusPathShadowsAdminPath = errors.New("status-path must not be below admin-prefix")
)

// Validate values populated in Config
func Validate(config *Config) error {
	var result *multierror.Error

	result = multierror.Append(result,
		validateListeners(config),
		validateDispatchConfig(config),
		validateAppConfig(config),
		validateGeneralConfig(config),
	)

	return result.ErrorOrNil()
}

func validateListeners(config *Config) error {
	if len(config.Listeners.HTTP) == 0 && len(config.Listeners.Proxy) == 0 {
		return ErrNoListener
	}

	return nil
}

func validateDispatchConfig(config *Config) error {
	var result *multierror.Error

	fi, err := os.Stat(config.Dispatch.DocumentRoot)
	if err != nil || !fi.IsDir() {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrDocumentRootNotDirectory, config.Dispatch.DocumentRoot))
	}

	prefix := config.Dispatch.AdminPrefix
	if !strings.HasPrefix(prefix, "/") || (len(prefix) > 1 && strings.HasSuffix(prefix, "/")) || prefix == "/" {
		result = multierror.Append(result, ErrAdminPrefixInvalid)
	}

	if len(config.Dispatch.StaticExtensions) == 0 {
		result = multierror.Append(result, ErrNoStaticExtensions)
	}

	return result.ErrorOrNil()
}

func validateAppConfig(config *Config) error {
	var result *multierror.Error

	u, err := url.Parse(config.App.Upstream)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("parsing app-upstream: %w", err))
	} else {
		// url.Parse ensures that the Scheme attribute is always lower case.
		if u.Scheme != "http" && u.Scheme != "https" {
			result = multierror.Append(result, ErrAppUpstreamUnsupported)
		}

		if u.Host == "" {
			result = multierror.Append(result, ErrAppUpstreamNoHost)
		}
	}

	if config.App.Timeout <= 0 {
		result = multierror.Append(result, ErrAppInvalidTimeout)
	}

	return result.ErrorOrNil()
}

func validateGeneralConfig(config *Config) error {
	var result *multierror.Error

	if config.Log.Format != "text" && config.Log.Format != "json" {
		result = multierror.Append(result, ErrInvalidLogFormat)
	}

	if config.RateLimit.SourceIPLimitPerSecond > 0 && config.RateLimit.SourceIPBurst <= 0 {
		result = multierror.Append(result, ErrInvalidRateLimitBurst)
	}

	if statusPath := config.General.StatusPath; statusPath != "" {
		if !strings.HasPrefix(statusPath, "/") {
			result = multierror.Append(result, ErrInvalidStatusPath)
		}

		if statusPath == config.Dispatch.AdminPrefix || strings.HasPrefix(statusPath, config.Dispatch.AdminPrefix+"/") {
			result = multierror.Append(result, ErrStatusPathShadowsAdminPath)
		}
	}

	if _, err := customheaders.ParseHeaderString(config.General.CustomHeaders); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}
