package handlers

import (
	"net/http"

	"github.com/rs/cors"

	"gitlab.com/learnhub/devserver/internal/config"
)

// Static assets are fetched cross-origin by fonts and source maps, the
// application's own forms are not.
var corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodHead}})

// CorsHandler allows cross-origin GET and HEAD requests unless disabled
func CorsHandler(config *config.Config, handler http.Handler) http.Handler {
	if !config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}

	return handler
}
