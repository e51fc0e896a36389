package customheaders

import (
	"bufio"
	"errors"
	"net/http"
	"net/textproto"
	"strings"
)

var errInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

// AddCustomHeaders copies every configured header value onto the response
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	dst := w.Header()

	for k, values := range headers {
		for _, value := range values {
			dst.Add(k, value)
		}
	}
}

// ParseHeaderString parses "Key: value" strings, as passed with -header,
// into canonical http.Header entries
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}

	for _, raw := range customHeaders {
		tp := textproto.NewReader(bufio.NewReader(strings.NewReader(strings.TrimSpace(raw) + "\n\n")))

		parsed, err := tp.ReadMIMEHeader()
		if err != nil {
			return nil, errInvalidHeaderParameter
		}

		for k, v := range parsed {
			k = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
			headers[k] = append(headers[k], v...)
		}
	}

	return headers, nil
}
