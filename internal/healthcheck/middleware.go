package healthcheck

import (
	"net/http"
)

// NewMiddleware answers requests for statusPath before they reach the
// dispatcher, so a file in the document root can never shadow it. An empty
// statusPath disables the check.
func NewMiddleware(handler http.Handler, statusPath string) http.Handler {
	if statusPath == "" {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == statusPath {
			writeStatus(w, r)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
