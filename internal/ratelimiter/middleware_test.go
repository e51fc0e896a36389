package ratelimiter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	ghandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	testlog "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"gitlab.com/learnhub/devserver/internal/testhelpers"
)

const (
	xForwardedFor = "172.16.123.1"
	remoteAddr    = "192.168.1.1"
)

var next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestMiddlewareDenyRequestsAfterBurst(t *testing.T) {
	hook := testlog.NewGlobal()

	tcs := map[string]struct {
		proxied bool
	}{
		"direct":  {proxied: false},
		"proxied": {proxied: true},
	}

	for tn, tc := range tcs {
		t.Run(tn, func(t *testing.T) {
			blocked := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_blocked"}, []string{"limit_name"})

			rl := New(
				"test_"+tn,
				WithNow(mockNow),
				WithLimitPerSecond(1),
				WithBurstSize(1),
				WithBlockedCountMetric(blocked),
			)

			// middleware is evaluated in reverse order
			handler := rl.Middleware(next)
			if tc.proxied {
				handler = ghandlers.ProxyHeaders(handler)
			}

			for i := 0; i < 5; i++ {
				ww := httptest.NewRecorder()
				rr := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8000/css/app.css", nil)
				rr.Header.Set(headerXForwardedFor, xForwardedFor)
				rr.RemoteAddr = remoteAddr

				handler.ServeHTTP(ww, rr)
				res := ww.Result()

				if i == 0 {
					require.Equal(t, http.StatusNoContent, res.StatusCode)
					continue
				}

				// burst is 1 and limit is 1 per second, all subsequent requests should fail
				require.Equal(t, http.StatusTooManyRequests, res.StatusCode)

				b, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				testhelpers.Close(t, res.Body)
				require.Contains(t, string(b), "Too many requests.")

				assertSourceIPLog(t, tc.proxied, hook)
			}

			require.Equal(t, float64(4), testutil.ToFloat64(blocked.WithLabelValues("test_"+tn)))
		})
	}
}

func assertSourceIPLog(t *testing.T, proxied bool, hook *testlog.Hook) {
	t.Helper()

	require.NotNil(t, hook.LastEntry())
	require.Equal(t, "request hit rate limit", hook.LastEntry().Message)

	// source_ip that was rate limited
	if proxied {
		require.Equal(t, xForwardedFor, hook.LastEntry().Data["source_ip"])
	} else {
		require.Equal(t, remoteAddr, hook.LastEntry().Data["source_ip"])
	}

	hook.Reset()
}
