package dispatch

import (
	"errors"
	"io/fs"
	"net/http"

	log "github.com/sirupsen/logrus"

	"gitlab.com/learnhub/devserver/internal/httperrors"
	"gitlab.com/learnhub/devserver/internal/logging"
	"gitlab.com/learnhub/devserver/metrics"
)

// StaticServer writes a resolved file from the document root to w. It
// returns an error only when nothing has been written yet.
type StaticServer interface {
	ServeFile(w http.ResponseWriter, r *http.Request, fullPath string) error
}

// Handler runs the Dispatcher for every request and passes it to the static
// file server or to the application
type Handler struct {
	dispatcher *Dispatcher
	static     StaticServer
	app        http.Handler
}

// NewHandler returns the dispatching http.Handler
func NewHandler(d *Dispatcher, static StaticServer, app http.Handler) *Handler {
	return &Handler{dispatcher: d, static: static, app: app}
}

func (h *Handler) decide(r *http.Request) Decision {
	if r.RequestURI != "" {
		return h.dispatcher.DecideURI(r.RequestURI)
	}

	return h.dispatcher.Decide(r.URL.Path)
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	decision := h.decide(r)

	metrics.DispatchDecisions.WithLabelValues(decision.Action.String(), decision.Rule.String()).Inc()
	logging.LogRequest(r).WithFields(log.Fields{
		"dispatch_action": decision.Action.String(),
		"dispatch_rule":   decision.Rule.String(),
		"dispatch_file":   decision.File,
	}).Debug("dispatch decision")

	if decision.Action == ServeStaticFile {
		err := h.static.ServeFile(w, r, decision.File)
		switch {
		case err == nil:
			return
		case errors.Is(err, fs.ErrNotExist):
			// removed since the decision was taken
			logging.LogRequest(r).WithError(err).Debug("static file vanished, delegating to application")
		default:
			httperrors.Serve500WithRequest(w, r, "failed to serve static file", err)
			return
		}
	}

	h.app.ServeHTTP(w, r)
}
