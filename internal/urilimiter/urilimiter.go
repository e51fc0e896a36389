package urilimiter

import (
	"net/http"

	"gitlab.com/learnhub/devserver/internal/httperrors"
	"gitlab.com/learnhub/devserver/internal/logging"
)

// NewMiddleware answers 414 before dispatching when the request URI, as sent
// on the request line, exceeds limit bytes. 0 means unlimited.
func NewMiddleware(handler http.Handler, limit int) http.Handler {
	if limit <= 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if length := len(r.RequestURI); length > limit {
			logging.LogRequest(r).WithField("uri_length", length).Debug("request URI over limit")
			httperrors.Serve414(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
