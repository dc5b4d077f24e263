package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetmobile/internal/auth"
	"assetmobile/internal/domain"
	"assetmobile/internal/navigation"
	"assetmobile/internal/session"
	"assetmobile/internal/storage"
	"assetmobile/pkg/sdk"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret       = "test-secret"
	testDefaultToken = "default-token"
)

type fixture struct {
	store   *session.Store
	nav     *navigation.Map
	service *auth.Service
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

// newBackend serves login and navigation. navJobRole is the identity the
// navigation payload claims.
func newBackend(t *testing.T, token string, navJobRole string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post(sdk.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testDefaultToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing default token"})
			return
		}
		var req sdk.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": token,
			"user": map[string]any{
				"id":            "u1",
				"full_name":     "Ada Lovelace",
				"job_role_id":   "JR1",
				"language_code": "de",
			},
		})
	})
	r.Get(sdk.NavigationPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"job_role_id": navJobRole,
			"data": []any{
				map[string]any{"app_id": "MAINT", "label": "Maintenance", "access_level": "D", "sort_order": 2},
				map[string]any{"app_id": "ASSETS", "label": "Assets", "access_level": "A", "sort_order": 1},
				map[string]any{"app_id": "MAINT", "label": "Maintenance (dup)", "access_level": "A", "sort_order": 0},
			},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, baseURL string) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	store := session.NewStore(storage.NewMemoryStore(), logger)
	t.Cleanup(func() { _ = store.Close() })

	client := sdk.NewClient(baseURL,
		sdk.WithDefaultToken(testDefaultToken),
		sdk.WithTokenSource(store),
	)
	nav := navigation.NewMap(client, store, logger)
	return &fixture{
		store:   store,
		nav:     nav,
		service: auth.NewService(client, store, nav, logger),
	}
}

func TestLoginLoadsSessionAndMenu(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	f := setup(t, newBackend(t, token, "JR1").URL)
	ctx := context.Background()

	state, err := f.service.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, state.NavigationErr)
	assert.Equal(t, "Ada Lovelace", state.Profile.Name())

	require.Len(t, state.Menu, 2)
	assert.Equal(t, "ASSETS", state.Menu[0].AppID)
	assert.Equal(t, "MAINT", state.Menu[1].AppID)
	assert.Equal(t, domain.AccessDisplay, state.Menu[1].AccessLevel)

	stored, err := f.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	lang, err := f.store.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)

	assert.True(t, f.nav.HasAccess("ASSETS", domain.AccessFull))
	assert.False(t, f.nav.HasAccess("MAINT", domain.AccessFull))
}

func TestLoginNavigationMismatchKeepsSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	f := setup(t, newBackend(t, token, "JR9").URL)
	ctx := context.Background()

	state, err := f.service.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.ErrorIs(t, state.NavigationErr, navigation.ErrAuthConsistency)
	assert.Empty(t, state.Menu)
	assert.False(t, f.nav.HasAccess("ASSETS", domain.AccessDisplay))

	ok, err := f.store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginRejected(t *testing.T) {
	f := setup(t, newBackend(t, "tok", "JR1").URL)
	ctx := context.Background()

	_, err := f.service.Login(ctx, "ada@example.com", "nope")
	assert.True(t, sdk.IsUnauthorized(err))

	ok, err := f.store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.service.Login(ctx, " ", "pw")
	assert.True(t, errors.Is(err, auth.ErrMissingCredentials))
}

func TestLogoutAndRestore(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	f := setup(t, newBackend(t, token, "JR1").URL)
	ctx := context.Background()

	_, err := f.service.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	state, err := f.service.Restore(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Menu, 2)

	require.NoError(t, f.service.Logout(ctx))
	assert.Empty(t, f.nav.Menu())

	_, err = f.service.Restore(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	lang, err := f.store.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)
}

func TestWipe(t *testing.T) {
	f := setup(t, newBackend(t, "tok", "JR1").URL)
	ctx := context.Background()

	require.NoError(t, f.store.StorePushToken(ctx, "push"))
	require.NoError(t, f.service.Wipe(ctx))

	push, err := f.store.PushToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, push)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	got, ok := auth.TokenExpiry(mintToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = auth.TokenExpiry("not-a-jwt")
	assert.False(t, ok)

	unsigned := strings.Join([]string{"eyJhbGciOiJub25lIn0", "e30", ""}, ".")
	_, ok = auth.TokenExpiry(unsigned)
	assert.False(t, ok)
}

// failingKV rejects writes to one key.
type failingKV struct {
	domain.KeyValueStore
	key string
	err error
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if key == f.key {
		return f.err
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

func TestLoginRollsBackTokenWhenProfileWriteFails(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	srv := newBackend(t, token, "JR1")
	logger := zerolog.Nop()
	diskFull := errors.New("disk full")

	store := session.NewStore(&failingKV{KeyValueStore: storage.NewMemoryStore(), key: session.KeyUserData, err: diskFull}, logger)
	t.Cleanup(func() { _ = store.Close() })
	client := sdk.NewClient(srv.URL, sdk.WithDefaultToken(testDefaultToken), sdk.WithTokenSource(store))
	service := auth.NewService(client, store, navigation.NewMap(client, store, logger), logger)
	ctx := context.Background()

	_, err := service.Login(ctx, "ada@example.com", "pw")
	require.ErrorIs(t, err, diskFull)

	ok, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = service.Restore(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}
