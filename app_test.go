package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cfg "gitlab.com/learnhub/devserver/internal/config"
	"gitlab.com/learnhub/devserver/internal/dispatch"
	"gitlab.com/learnhub/devserver/internal/testhelpers"
)

func newTestConfig(t *testing.T, upstream string) *cfg.Config {
	t.Helper()

	documentRoot := testhelpers.DocumentRoot(t, map[string]string{
		"css/app.css":      "body {}",
		"admin/app.js":     "console.log('stale admin bundle')",
		"index.html":       "<h1>static index</h1>",
		"robots.txt":       "User-agent: *",
		"docs/index.html":  "<h1>docs</h1>",
		"images/logo.png":  "png",
		"build/manifest":   "{}",
		"storage/.gitkeep": "",
	})

	return &cfg.Config{
		General: cfg.General{
			MaxURILength:  64,
			StatusPath:    "/-/status",
			CustomHeaders: []string{"X-Served-By: devserver"},
		},
		Dispatch: cfg.Dispatch{
			DocumentRoot:     documentRoot,
			AdminPrefix:      "/admin",
			StaticExtensions: dispatch.DefaultStaticExtensions(),
			FollowSymlinks:   true,
		},
		App: cfg.App{
			Upstream: upstream,
			Timeout:  time.Second,
		},
		Log: cfg.Log{
			Format: "json",
		},
		Server: cfg.Server{
			ReadHeaderTimeout: time.Second,
			KeepAlive:         time.Minute,
			ShutdownTimeout:   time.Second,
		},
	}
}

func newTestUpstream(t *testing.T) string {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "application:%s", r.URL.RequestURI())
	}))
	t.Cleanup(upstream.Close)

	return upstream.URL
}

func newTestPipeline(t *testing.T) http.Handler {
	t.Helper()

	a, err := newApp(newTestConfig(t, newTestUpstream(t)))
	require.NoError(t, err)

	handler, err := a.buildHandlerPipeline()
	require.NoError(t, err)

	return handler
}

func TestHandlerPipeline(t *testing.T) {
	handler := newTestPipeline(t)

	tests := map[string]struct {
		method         string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		"static_file": {
			method:         http.MethodGet,
			target:         "/css/app.css",
			expectedStatus: http.StatusOK,
			expectedBody:   "body {}",
		},
		"static_file_with_query": {
			method:         http.MethodGet,
			target:         "/images/logo.png?v=2",
			expectedStatus: http.StatusOK,
			expectedBody:   "png",
		},
		"fallback_file": {
			method:         http.MethodGet,
			target:         "/robots.txt",
			expectedStatus: http.StatusOK,
			expectedBody:   "User-agent: *",
		},
		"directory_index": {
			method:         http.MethodGet,
			target:         "/docs/",
			expectedStatus: http.StatusOK,
			expectedBody:   "<h1>docs</h1>",
		},
		"application_route": {
			method:         http.MethodGet,
			target:         "/courses/go?page=2",
			expectedStatus: http.StatusOK,
			expectedBody:   "application:/courses/go?page=2",
		},
		"root": {
			method:         http.MethodGet,
			target:         "/",
			expectedStatus: http.StatusOK,
			expectedBody:   "application:/",
		},
		"admin": {
			method:         http.MethodGet,
			target:         "/admin",
			expectedStatus: http.StatusOK,
			expectedBody:   "application:/admin",
		},
		"admin_static_file": {
			method:         http.MethodGet,
			target:         "/admin/app.js",
			expectedStatus: http.StatusOK,
			expectedBody:   "application:/admin/app.js",
		},
		"form_post": {
			method:         http.MethodPost,
			target:         "/checkout",
			expectedStatus: http.StatusOK,
			expectedBody:   "application:/checkout",
		},
		"status_page": {
			method:         http.MethodGet,
			target:         "/-/status",
			expectedStatus: http.StatusOK,
			expectedBody:   "success\n",
		},
		"unknown_method": {
			method:         "PURGE",
			target:         "/css/app.css",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		"uri_too_long": {
			method:         http.MethodGet,
			target:         "/courses?q=" + strings.Repeat("go", 40),
			expectedStatus: http.StatusRequestURITooLong,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.target, nil)
			handler.ServeHTTP(w, r)

			require.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, w.Body.String())
			}

			// answered before reaching the custom headers middleware
			if tt.expectedStatus == http.StatusOK && tt.target != "/-/status" {
				require.Equal(t, "devserver", w.Header().Get("X-Served-By"))
			}
		})
	}
}

func TestHandlerPipelineNonCanonicalAdminPaths(t *testing.T) {
	handler := newTestPipeline(t)

	for _, target := range []string{
		"//admin/app.js",
		"/./admin/app.js",
		"/images/../admin/app.js",
		"/images/%2e%2e/admin/app.js",
	} {
		t.Run(target, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			require.True(t, strings.HasPrefix(w.Body.String(), "application:"), w.Body.String())
			require.NotContains(t, w.Body.String(), "stale admin bundle")
		})
	}
}

func TestHandlerPipelineRecoversFromPanics(t *testing.T) {
	a, err := newApp(newTestConfig(t, newTestUpstream(t)))
	require.NoError(t, err)

	a.dispatcher = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler, err := a.buildHandlerPipeline()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProxyListener(t *testing.T) {
	a, err := newApp(newTestConfig(t, newTestUpstream(t)))
	require.NoError(t, err)

	l, err := a.listen(listenerConfig{name: "proxy", addr: "127.0.0.1:0", isProxy: true, maxConns: 10})
	require.NoError(t, err)

	server := a.newServer(proxyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.RemoteAddr, r.URL.Scheme)
	})))

	go server.Serve(l)
	t.Cleanup(func() { server.Close() })

	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	fmt.Fprint(conn, "PROXY TCP4 10.1.2.3 127.0.0.1 40000 8000\r\n")
	fmt.Fprint(conn, "GET / HTTP/1.1\r\nHost: learnhub.test\r\nX-Forwarded-Proto: https\r\nConnection: close\r\n\r\n")

	res, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "10.1.2.3:40000 https", string(body))
}

func TestMetricsHandler(t *testing.T) {
	handler := metricsHandler()

	require.HTTPStatusCode(t, handler.ServeHTTP, http.MethodGet, "/metrics", nil, http.StatusOK)
	require.HTTPBodyContains(t, handler.ServeHTTP, http.MethodGet, "/-/healthcheck", nil, "success")
	require.HTTPStatusCode(t, handler.ServeHTTP, http.MethodGet, "/courses", nil, http.StatusNotFound)
}

func TestRunShutsDownWhenContextIsDone(t *testing.T) {
	config := newTestConfig(t, newTestUpstream(t))
	config.Listeners.HTTP = []string{"127.0.0.1:0"}
	config.Listeners.Proxy = []string{"127.0.0.1:0"}

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- runApp(ctx, config)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("development server did not shut down")
	}
}

func TestRunFailsOnBusyAddress(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	config := newTestConfig(t, newTestUpstream(t))
	config.Listeners.HTTP = []string{l.Addr().String()}

	err = runApp(context.Background(), config)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to listen on")
}
