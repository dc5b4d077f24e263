package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultPollInterval = 5 * time.Second

// LanguageFunc fetches the language the server currently holds for the user.
type LanguageFunc func(ctx context.Context) (string, error)

type WatcherOptions struct {
	Interval time.Duration
	// Remote, when set, is consulted on each tick while a session exists;
	// a differing value is written to the store.
	Remote   LanguageFunc
	OnChange func(lang string)
}

// LanguageWatcher polls for language preference changes until stopped.
type LanguageWatcher struct {
	store    *Store
	interval time.Duration
	remote   LanguageFunc
	onChange func(string)
	logger   zerolog.Logger

	mu      sync.Mutex
	current string
	primed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

var ErrWatcherRunning = errors.New("language watcher already running")

func NewLanguageWatcher(store *Store, opts WatcherOptions) *LanguageWatcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &LanguageWatcher{
		store:    store,
		interval: interval,
		remote:   opts.Remote,
		onChange: opts.OnChange,
		logger:   store.logger,
	}
}

// WatchLanguage starts a watcher whose lifetime is tied to the store: Close
// stops it.
func (s *Store) WatchLanguage(ctx context.Context, opts WatcherOptions) (*LanguageWatcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("session store closed")
	}
	w := NewLanguageWatcher(s, opts)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	s.watchers = append(s.watchers, w)
	return w, nil
}

func (w *LanguageWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return ErrWatcherRunning
	}

	lang, err := w.store.Language(ctx)
	if err != nil {
		return err
	}
	w.current = lang
	w.primed = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, w.done)
	return nil
}

func (w *LanguageWatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil && ctx.Err() == nil {
				w.logger.Warn().Err(err).Msg("language sync failed")
			}
		}
	}
}

// Stop cancels the polling goroutine and waits for it. Safe to call twice;
// a stopped watcher can be started again.
func (w *LanguageWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *LanguageWatcher) Current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Sync runs one poll. It writes to the store only when the remote value
// differs, and reports whether the observed language changed. A failed
// remote pull is returned, but local changes are still reported.
func (w *LanguageWatcher) Sync(ctx context.Context) (bool, error) {
	var remoteErr error
	if w.remote != nil {
		if err := w.pullRemote(ctx); err != nil {
			remoteErr = fmt.Errorf("error pulling remote language: %w", err)
		}
	}

	lang, err := w.store.Language(ctx)
	if err != nil {
		return false, errors.Join(remoteErr, err)
	}

	w.mu.Lock()
	changed := w.primed && lang != w.current
	w.current = lang
	w.primed = true
	w.mu.Unlock()

	if changed {
		w.logger.Info().Str("language", lang).Msg("language preference changed")
		if w.onChange != nil {
			w.onChange(lang)
		}
	}
	return changed, remoteErr
}

func (w *LanguageWatcher) pullRemote(ctx context.Context) error {
	ok, err := w.store.IsAuthenticated(ctx)
	if err != nil || !ok {
		return err
	}
	remote, err := w.remote(ctx)
	if err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	stored, err := w.store.Language(ctx)
	if err != nil {
		return err
	}
	if remote != stored {
		return w.store.SetLanguage(ctx, remote)
	}
	return nil
}
