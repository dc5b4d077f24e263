package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"assetmobile/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncDetectsLocalChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var changes []string
	w := NewLanguageWatcher(s, WatcherOptions{OnChange: func(lang string) { changes = append(changes, lang) }})
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.Equal(t, DefaultLanguage, w.Current())

	changed, err := w.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.SetLanguage(ctx, "de"))
	changed, err = w.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "de", w.Current())
	assert.Equal(t, []string{"de"}, changes)
}

func TestSyncPullsRemoteOnlyWhenAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var calls atomic.Int32
	w := NewLanguageWatcher(s, WatcherOptions{
		Remote: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "pt", nil
		},
	})

	changed, err := w.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, s.StoreToken(ctx, "abc"))
	changed, err = w.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int32(1), calls.Load())

	lang, err := s.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pt", lang)
}

func TestSyncRemoteError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.StoreToken(ctx, "abc"))

	boom := errors.New("offline")
	var changes []string
	w := NewLanguageWatcher(s, WatcherOptions{
		Remote:   func(ctx context.Context) (string, error) { return "", boom },
		OnChange: func(lang string) { changes = append(changes, lang) },
	})
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, s.SetLanguage(ctx, "fr"))
	changed, err := w.Sync(ctx)
	assert.ErrorIs(t, err, boom)
	assert.True(t, changed)
	assert.Equal(t, "fr", w.Current())
	assert.Equal(t, []string{"fr"}, changes)
}

func TestSyncUnstartedWatcherPrimes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	w := NewLanguageWatcher(s, WatcherOptions{})

	changed, err := w.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, DefaultLanguage, w.Current())
}

func TestWatcherPollsAndStops(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	changed := make(chan string, 1)
	w, err := s.WatchLanguage(ctx, WatcherOptions{
		Interval: 10 * time.Millisecond,
		OnChange: func(lang string) {
			select {
			case changed <- lang:
			default:
			}
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.SetLanguage(ctx, "nl"))

	select {
	case lang := <-changed:
		assert.Equal(t, "nl", lang)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the language change")
	}

	w.Stop()
	w.Stop()

	require.NoError(t, w.Start(ctx))
	assert.ErrorIs(t, w.Start(ctx), ErrWatcherRunning)
	w.Stop()
}

func TestCloseStopsWatchers(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewMemoryStore(), zerolog.Nop())

	w, err := s.WatchLanguage(ctx, WatcherOptions{Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, s.Close())

	w.mu.Lock()
	stopped := w.cancel == nil
	w.mu.Unlock()
	assert.True(t, stopped)

	_, err = s.WatchLanguage(ctx, WatcherOptions{})
	assert.Error(t, err)
}
