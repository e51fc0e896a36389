package request

import (
	"net"
	"net/http"
)

const (
	// SchemeHTTP name for the HTTP scheme
	SchemeHTTP = "http"
	// SchemeHTTPS name for the HTTPS scheme
	SchemeHTTPS = "https"
)

// IsHTTPS checks whether the request was served over TLS, either directly or,
// behind a PROXY protocol listener, as reported by gorilla's ProxyHeaders
func IsHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == SchemeHTTPS
}

// Scheme returns the scheme the client used to reach the server
func Scheme(r *http.Request) string {
	if IsHTTPS(r) {
		return SchemeHTTPS
	}

	return SchemeHTTP
}

// GetHostWithoutPort returns a host without the port. The host(:port) comes
// from a Host: header if present, otherwise the host from the request URL
func GetHostWithoutPort(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}

	return stripPort(host)
}

// GetRemoteAddrWithoutPort strips the port from the r.RemoteAddr
func GetRemoteAddrWithoutPort(r *http.Request) string {
	return stripPort(r.RemoteAddr)
}

func stripPort(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}

	return host
}
