package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"assetmobile/internal/app"
	"assetmobile/internal/domain"
	"assetmobile/internal/session"
	"assetmobile/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenKV fails every read.
type brokenKV struct {
	domain.KeyValueStore
	err error
}

func (b *brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, b.err
}

func withContainer(t *testing.T, c *app.Container) {
	t.Helper()
	prev := Container
	Container = c
	t.Cleanup(func() { Container = prev })
}

func captureExit(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var out bytes.Buffer
	code := -1
	prevExit, prevStderr := exit, stderr
	exit = func(c int) { code = c }
	stderr = &out
	t.Cleanup(func() { exit, stderr = prevExit, prevStderr })
	return &out, &code
}

func TestFatalWithoutContainer(t *testing.T) {
	withContainer(t, nil)
	out, code := captureExit(t)

	fatal("Error loading configuration", errors.New("bad json"))

	assert.Equal(t, 1, *code)
	assert.Equal(t, "Error loading configuration: bad json\n", out.String())
}

func TestFatalLogsAndClosesContainer(t *testing.T) {
	var logs bytes.Buffer
	store := session.NewStore(storage.NewMemoryStore(), zerolog.Nop())
	withContainer(t, &app.Container{Session: store, Logger: zerolog.New(&logs)})
	out, code := captureExit(t)

	fatal("Error listing assets", errors.New("offline"))

	assert.Equal(t, 1, *code)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "Error listing assets")
	assert.Contains(t, logs.String(), "offline")

	_, err := store.WatchLanguage(context.Background(), session.WatcherOptions{})
	assert.Error(t, err)
}

func TestNewBreakdownReportStampsUser(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(storage.NewMemoryStore(), zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.StoreUserData(ctx, domain.UserProfile{"id": "u7"}))
	withContainer(t, &app.Container{Session: store, Logger: zerolog.Nop()})

	report, err := newBreakdownReport(ctx, "AST-1")
	require.NoError(t, err)
	assert.Equal(t, "AST-1", report.AssetID)
	assert.Equal(t, "u7", report.ReportedBy)
}

func TestNewBreakdownReportSurfacesStoreError(t *testing.T) {
	readErr := errors.New("database is locked")
	store := session.NewStore(&brokenKV{KeyValueStore: storage.NewMemoryStore(), err: readErr}, zerolog.Nop())
	withContainer(t, &app.Container{Session: store, Logger: zerolog.Nop()})

	_, err := newBreakdownReport(context.Background(), "AST-1")
	assert.ErrorIs(t, err, readErr)
}
