package frontcontroller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	testlog "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"gitlab.com/learnhub/devserver/internal/testhelpers"
	"gitlab.com/learnhub/devserver/metrics"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *url.URL {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	return u
}

func TestFrontControllerProxiesRequest(t *testing.T) {
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream-Host", r.Host)
		w.Header().Set("X-Upstream-Forwarded-Host", r.Header.Get(headerXForwardedHost))
		w.Header().Set("X-Upstream-Forwarded-Proto", r.Header.Get(headerXForwardedProto))
		w.Header().Set("X-Upstream-Forwarded-For", r.Header.Get("X-Forwarded-For"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, "%s %s", r.Method, r.URL.RequestURI())
	})

	fc := New(upstream, time.Second)

	before := testutil.ToFloat64(metrics.AppRequests.WithLabelValues("201"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "http://learnhub.test/admin/courses?draft=1", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	fc.ServeHTTP(w, r)

	res := w.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	testhelpers.Close(t, res.Body)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "POST /admin/courses?draft=1", string(body))
	require.Equal(t, "learnhub.test", res.Header.Get("X-Upstream-Host"))
	require.Equal(t, "learnhub.test", res.Header.Get("X-Upstream-Forwarded-Host"))
	require.Equal(t, "http", res.Header.Get("X-Upstream-Forwarded-Proto"))
	require.Equal(t, "10.0.0.7", res.Header.Get("X-Upstream-Forwarded-For"))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.AppRequests.WithLabelValues("201")))
}

func TestFrontControllerUpstreamPath(t *testing.T) {
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.RequestURI())
	})
	upstream.Path = "/index.php"
	upstream.RawQuery = "env=local"

	fc := New(upstream, time.Second)

	w := httptest.NewRecorder()
	fc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/go?page=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "/index.php/courses/go?env=local&page=2", w.Body.String())
}

func TestFrontControllerUnavailable(t *testing.T) {
	hook := testlog.NewGlobal()

	server := httptest.NewServer(http.NotFoundHandler())
	upstream, err := url.Parse(server.URL)
	require.NoError(t, err)
	server.Close()

	before := testutil.ToFloat64(metrics.AppRequests.WithLabelValues("error"))

	fc := New(upstream, time.Second)

	w := httptest.NewRecorder()
	fc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "Whoops, the application did not respond.")
	require.Equal(t, before+1, testutil.ToFloat64(metrics.AppRequests.WithLabelValues("error")))
	testhelpers.AssertLogContains(t, "application front controller unavailable", hook.AllEntries())
}

func TestFrontControllerTimeout(t *testing.T) {
	release := make(chan struct{})

	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	fc := New(upstream, 50*time.Millisecond)

	w := httptest.NewRecorder()
	fc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/slow", nil))

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestFrontControllerClientCancelled(t *testing.T) {
	hook := testlog.NewGlobal()

	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	fc := New(upstream, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	r := httptest.NewRequest(http.MethodGet, "/courses", nil).WithContext(ctx)

	time.AfterFunc(50*time.Millisecond, cancel)

	w := httptest.NewRecorder()
	fc.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Empty(t, w.Body.String())

	for _, entry := range hook.AllEntries() {
		require.NotEqual(t, "application front controller unavailable", entry.Message)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		base, p, expected string
	}{
		{base: "/index.php", p: "/courses", expected: "/index.php/courses"},
		{base: "/index.php/", p: "/courses", expected: "/index.php/courses"},
		{base: "/index.php", p: "courses", expected: "/index.php/courses"},
		{base: "/index.php/", p: "courses", expected: "/index.php/courses"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, joinPath(tt.base, tt.p))
	}
}
