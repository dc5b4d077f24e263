package sdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"assetmobile/pkg/sdk"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	return newBackend(t, func(r chi.Router) {
		r.Get(sdk.DefaultHealthPath, func(w http.ResponseWriter, r *http.Request) {
			if hits != nil {
				hits.Add(1)
			}
			w.WriteHeader(status)
		})
	})
}

func TestResolvePrefersEarliestHealthy(t *testing.T) {
	var firstHits, secondHits atomic.Int32
	first := healthServer(t, http.StatusOK, &firstHits)
	second := healthServer(t, http.StatusOK, &secondHits)

	r := &sdk.Resolver{Timeout: time.Second}
	got, err := r.Resolve(context.Background(), []string{first.URL, second.URL})
	require.NoError(t, err)
	assert.Equal(t, first.URL, got)
	assert.Equal(t, int32(1), firstHits.Load())
	assert.Equal(t, int32(0), secondHits.Load())
}

func TestResolveSkipsUnhealthyAndUnreachable(t *testing.T) {
	unhealthy := healthServer(t, http.StatusServiceUnavailable, nil)
	healthy := healthServer(t, http.StatusOK, nil)

	r := &sdk.Resolver{Timeout: time.Second}
	got, err := r.Resolve(context.Background(), []string{deadURL(t), unhealthy.URL, healthy.URL})
	require.NoError(t, err)
	assert.Equal(t, healthy.URL, got)
}

func TestResolveNoneReachable(t *testing.T) {
	unhealthy := healthServer(t, http.StatusInternalServerError, nil)

	r := &sdk.Resolver{Timeout: time.Second}
	got, err := r.Resolve(context.Background(), []string{deadURL(t), unhealthy.URL})
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, sdk.ErrNoServerReachable))

	_, err = r.Resolve(context.Background(), nil)
	assert.True(t, errors.Is(err, sdk.ErrNoServerReachable))
}

func TestResolveProbeTimeout(t *testing.T) {
	slow := newBackend(t, func(r chi.Router) {
		r.Get(sdk.DefaultHealthPath, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
	})
	healthy := healthServer(t, http.StatusOK, nil)

	client := sdk.NewClient(slow.URL, sdk.WithFallbacks(healthy.URL), sdk.WithTimeout(100*time.Millisecond))
	start := time.Now()
	got, err := client.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, healthy.URL, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolveCancelled(t *testing.T) {
	var hits atomic.Int32
	healthy := healthServer(t, http.StatusOK, &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &sdk.Resolver{Timeout: time.Second}
	_, err := r.Resolve(ctx, []string{healthy.URL, healthy.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, sdk.ErrNoServerReachable))
	assert.Equal(t, int32(0), hits.Load())
}

func TestResolveSkipsMalformedCandidate(t *testing.T) {
	healthy := healthServer(t, http.StatusOK, nil)

	r := &sdk.Resolver{Timeout: time.Second}
	got, err := r.Resolve(context.Background(), []string{"://no-scheme", healthy.URL})
	require.NoError(t, err)
	assert.Equal(t, healthy.URL, got)
}
