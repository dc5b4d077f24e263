package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"assetmobile/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	return &config.Config{
		PrimaryURL:           "http://127.0.0.1:1",
		RequestTimeout:       config.Duration(time.Second),
		HealthPath:           "/api/health",
		StorageBackend:       backend,
		DatabasePath:         filepath.Join(t.TempDir(), "session.db"),
		LanguagePollInterval: config.Duration(time.Second),
	}
}

func TestNewWithEachBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	for _, backend := range []string{config.BackendSQLite, config.BackendMemory, config.BackendRedis} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			cfg.RedisAddr = mr.Addr()

			c, err := New(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)

			require.NoError(t, c.Session.StoreToken(ctx, "abc"))
			token, err := c.Session.Token(ctx)
			require.NoError(t, err)
			assert.Equal(t, "abc", token)

			require.NoError(t, c.Close())
		})
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "tape"), zerolog.Nop())
	assert.Error(t, err)
}

func TestRemoteLanguage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": 1, "language_code": "fr"}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := testConfig(t, config.BackendMemory)
	cfg.PrimaryURL = srv.URL

	c, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	lang, err := c.RemoteLanguage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}
