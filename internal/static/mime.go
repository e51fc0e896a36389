package static

import (
	"fmt"
	"mime"

	mimedb "gitlab.com/gitlab-org/go-mimedb"
)

// Types the system MIME table and go-mimedb may lack or get wrong for
// front-end build output
var extraMIMETypes = map[string]string{
	".avif":        "image/avif",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
}

// LoadMIMETypes registers the go-mimedb table and the extra front-end types
// with the mime package. It is called once at start-up.
func LoadMIMETypes() error {
	if err := mimedb.LoadTypes(); err != nil {
		return fmt.Errorf("loading MIME types: %w", err)
	}

	for ext, mimeType := range extraMIMETypes {
		if err := mime.AddExtensionType(ext, mimeType); err != nil {
			return fmt.Errorf("adding extension %q with MIME type %q: %w", ext, mimeType, err)
		}
	}

	return nil
}
