// Package frontcontroller proxies requests to the application's single
// entry point, an HTTP process listening on the configured upstream.
package frontcontroller

import (
	stdlog "log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"gitlab.com/learnhub/devserver/metrics"
)

// FrontController hands requests to the application
type FrontController struct {
	proxy *httputil.ReverseProxy
}

// New returns a FrontController proxying to upstream. timeout bounds the
// time the application may take to send its response headers.
func New(upstream *url.URL, timeout time.Duration) *FrontController {
	errorLog := logrus.StandardLogger().WriterLevel(logrus.WarnLevel)

	proxy := httputil.ReverseProxy{
		Director: newDirectorFunc(upstream),
		Transport: newMeteredRoundTripper(
			"application",
			newTransport(timeout),
			metrics.AppTraceDuration,
			metrics.AppRequestDuration,
			metrics.AppRequests,
		),
		ErrorHandler: newErrorHandler(),
		ErrorLog:     stdlog.New(errorLog, "", 0),
	}

	return &FrontController{proxy: &proxy}
}

// ServeHTTP implements http.Handler
func (fc *FrontController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fc.proxy.ServeHTTP(w, r)
}
