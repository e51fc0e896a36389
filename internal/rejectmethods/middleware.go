package rejectmethods

import (
	"net/http"

	"gitlab.com/learnhub/devserver/internal/httperrors"
)

// The application's resource routes use PUT, PATCH and DELETE, so every
// method from RFC 7231 and RFC 5789 is accepted.
var acceptedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// NewMiddleware returns middleware which rejects all unknown http methods
func NewMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptedMethods[r.Method] {
			httperrors.Serve405(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
