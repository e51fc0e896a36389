package httperrors

import (
	"bytes"
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"gitlab.com/learnhub/devserver/internal/errortracking"
	"gitlab.com/learnhub/devserver/internal/logging"
)

type page struct {
	Status  int
	Heading string
	Hints   []string
}

func (p page) Title() string {
	return http.StatusText(p.Status)
}

var (
	page405 = page{
		Status:  http.StatusMethodNotAllowed,
		Heading: "Method not allowed.",
		Hints:   []string{"The development server does not accept this request method."},
	}
	page414 = page{
		Status:  http.StatusRequestURITooLong,
		Heading: "Request URI too long.",
		Hints: []string{
			"The request URI is longer than the server accepts.",
			"Shorten the query string or raise -max-uri-length.",
		},
	}
	page429 = page{
		Status:  http.StatusTooManyRequests,
		Heading: "Too many requests.",
		Hints:   []string{"Requests from your address are being rate limited. Wait a moment and retry."},
	}
	page500 = page{
		Status:  http.StatusInternalServerError,
		Heading: "Whoops, something went wrong on our end.",
		Hints: []string{
			"Reload the page or retry the action.",
			"The development server log has the details.",
		},
	}
	page502 = page{
		Status:  http.StatusBadGateway,
		Heading: "Whoops, the application did not respond.",
		Hints: []string{
			"The development server could not reach the application front controller.",
			"Check that the application is running and listening on the -app-upstream address.",
		},
	}
)

var pageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} ({{.Status}})</title>
  <style>
    body { margin: 10vh auto; max-width: 42rem; padding: 0 1rem; font-family: system-ui, sans-serif; color: #333; }
    .status { font-size: 4rem; margin: 0; color: #b33; }
    h1 { font-size: 1.4rem; font-weight: 500; }
    p { line-height: 1.5; color: #555; }
  </style>
</head>
<body>
  <p class="status">{{.Status}}</p>
  <h1>{{.Heading}}</h1>
  {{range .Hints}}<p>{{.}}</p>
  {{end}}
</body>
</html>
`))

func render(p page) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func servePage(w http.ResponseWriter, p page) {
	body, err := render(p)
	if err != nil {
		log.WithError(err).Error("rendering error page")
		body = []byte(p.Heading + "\n")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(p.Status)
	w.Write(body)
}

// Serve405 writes the method not allowed page
func Serve405(w http.ResponseWriter) {
	servePage(w, page405)
}

// Serve414 writes the URI too long page
func Serve414(w http.ResponseWriter) {
	servePage(w, page414)
}

// Serve429 writes the rate limited page
func Serve429(w http.ResponseWriter) {
	servePage(w, page429)
}

// Serve500 writes the internal error page
func Serve500(w http.ResponseWriter) {
	servePage(w, page500)
}

// Serve500WithRequest logs and captures err before writing the internal error page
func Serve500WithRequest(w http.ResponseWriter, r *http.Request, reason string, err error) {
	logging.LogRequest(r).WithError(err).Error(reason)
	errortracking.CaptureErrWithReqAndStackTrace(err, r)
	servePage(w, page500)
}

// Serve502 writes the application unavailable page
func Serve502(w http.ResponseWriter) {
	servePage(w, page502)
}
