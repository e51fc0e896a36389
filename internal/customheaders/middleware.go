package customheaders

import (
	"net/http"
)

// NewMiddleware sets headers on every response before the wrapped handler
// runs, so static files and proxied application responses both carry them.
// headers is copied; later changes to the caller's map have no effect.
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	fixed := headers.Clone()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, fixed)
		handler.ServeHTTP(w, r)
	})
}
