// Package static serves files from the document root.
package static

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gitlab.com/learnhub/devserver/metrics"
)

// Opener opens files resolved below the document root
type Opener interface {
	Open(fullPath string) (*os.File, error)
}

// Server writes files to HTTP responses
type Server struct {
	root   Opener
	maxAge time.Duration
}

// New returns a Server opening files through root. Responses may be cached
// by clients for maxAge; a zero maxAge makes them revalidate every time.
func New(root Opener, maxAge time.Duration) *Server {
	return &Server{root: root, maxAge: maxAge}
}

// ServeFile serves the file at fullPath with support for range and
// conditional requests. Errors are returned only before anything has been
// written; a file that no longer exists yields an error wrapping
// fs.ErrNotExist.
func (s *Server) ServeFile(w http.ResponseWriter, r *http.Request, fullPath string) error {
	file, err := s.root.Open(fullPath)
	if err != nil {
		metrics.StaticFileOpenErrors.Inc()
		return err
	}

	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return err
	}

	contentType, err := detectContentType(fullPath, file)
	if err != nil {
		return err
	}

	s.setCacheHeaders(w)
	metrics.StaticFileSize.Observe(float64(fi.Size()))

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, fullPath, fi.ModTime(), file)

	return nil
}

func (s *Server) setCacheHeaders(w http.ResponseWriter) {
	if s.maxAge <= 0 {
		w.Header().Set("Cache-Control", "no-cache")
		return
	}

	w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(int(s.maxAge.Seconds())))
	w.Header().Set("Expires", time.Now().Add(s.maxAge).UTC().Format(http.TimeFormat))
}

// Detect file's content-type either by extension or mime-sniffing.
// Implementation is adapted from Golang's `http.serveContent()`
func detectContentType(path string, file io.ReadSeeker) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType != "" {
		return contentType, nil
	}

	var buf [512]byte

	// Using `io.ReadFull()` because `file.Read()` may be chunked.
	// Ignoring errors because we don't care if the 512 bytes cannot be read.
	n, _ := io.ReadFull(file, buf[:])
	contentType = http.DetectContentType(buf[:n])

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return contentType, nil
}
