package frontcontroller

import (
	"net/http"
	"net/url"
	"strings"

	"gitlab.com/learnhub/devserver/internal/request"
)

const (
	headerXForwardedHost  = "X-Forwarded-Host"
	headerXForwardedProto = "X-Forwarded-Proto"
)

// newDirectorFunc returns a director rewriting requests to reach upstream.
// The Host header is kept so the application builds URLs for the address
// the browser used.
func newDirectorFunc(upstream *url.URL) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(headerXForwardedHost, r.Host)
		r.Header.Set(headerXForwardedProto, request.Scheme(r))

		r.URL.Scheme = upstream.Scheme
		r.URL.Host = upstream.Host

		if upstream.Path != "" && upstream.Path != "/" {
			r.URL.RawPath = joinPath(upstream.EscapedPath(), r.URL.EscapedPath())
			r.URL.Path = joinPath(upstream.Path, r.URL.Path)
		}

		if upstream.RawQuery != "" {
			if r.URL.RawQuery == "" {
				r.URL.RawQuery = upstream.RawQuery
			} else {
				r.URL.RawQuery = upstream.RawQuery + "&" + r.URL.RawQuery
			}
		}

		if _, ok := r.Header["User-Agent"]; !ok {
			// explicitly disable User-Agent so it's not set to default value
			r.Header.Set("User-Agent", "")
		}
	}
}

func joinPath(base, p string) string {
	baseSlash := strings.HasSuffix(base, "/")
	pSlash := strings.HasPrefix(p, "/")

	switch {
	case baseSlash && pSlash:
		return base + p[1:]
	case !baseSlash && !pSlash:
		return base + "/" + p
	}

	return base + p
}
