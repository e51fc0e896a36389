package lru

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() (*prometheus.GaugeVec, *prometheus.CounterVec) {
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_cached_entries"}, []string{"op"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_requests"}, []string{"op", "cache"})

	return entries, requests
}

func TestFindOrFetch(t *testing.T) {
	entries, requests := newTestMetrics()

	c := New("test", 10, time.Minute, entries, requests)
	t.Cleanup(c.Stop)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := c.FindOrFetch("127.0.0.1", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = c.FindOrFetch("127.0.0.1", fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v, "second lookup should be served from the cache")

	v, err = c.FindOrFetch("127.0.0.2", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	require.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("test", "hit")))
	require.Equal(t, float64(2), testutil.ToFloat64(requests.WithLabelValues("test", "miss")))
	require.Equal(t, float64(2), testutil.ToFloat64(entries.WithLabelValues("test")))
}

func TestFindOrFetchError(t *testing.T) {
	entries, requests := newTestMetrics()

	c := New("test", 10, time.Minute, entries, requests)
	t.Cleanup(c.Stop)

	fetchErr := errors.New("fetch failed")

	v, err := c.FindOrFetch("key", func() (interface{}, error) {
		return nil, fetchErr
	})
	require.ErrorIs(t, err, fetchErr)
	require.Nil(t, v)

	require.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("test", "error")))
	require.Equal(t, float64(0), testutil.ToFloat64(entries.WithLabelValues("test")))
}

func TestFindOrFetchExpired(t *testing.T) {
	entries, requests := newTestMetrics()

	c := New("test", 10, time.Nanosecond, entries, requests)
	t.Cleanup(c.Stop)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.FindOrFetch("key", fetch)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	v, err := c.FindOrFetch("key", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}
