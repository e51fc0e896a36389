package frontcontroller

import (
	"net/http"

	"gitlab.com/learnhub/devserver/internal/errortracking"
	"gitlab.com/learnhub/devserver/internal/httperrors"
	"gitlab.com/learnhub/devserver/internal/logging"
)

// newErrorHandler returns a func(http.ResponseWriter, *http.Request, error)
// answering requests the application could not
func newErrorHandler() func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		if r.Context().Err() != nil {
			// the client went away, nobody will read the page
			logging.LogRequest(r).WithError(err).Debug("request to application cancelled by client")
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		logging.LogRequest(r).WithError(err).Error("application front controller unavailable")
		errortracking.CaptureErrWithReqAndStackTrace(err, r)
		httperrors.Serve502(w)
	}
}
