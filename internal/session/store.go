package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"assetmobile/internal/domain"

	"github.com/rs/zerolog"
)

const (
	KeyAuthToken           = "auth_token"
	KeyUserData            = "user_data"
	KeyLanguage            = "user_language"
	KeyPushToken           = "push_token"
	KeyPushTokenRegistered = "push_token_registered"

	DefaultLanguage = "en"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyToken       = errors.New("token must not be empty")
)

// Store is the persisted session: auth token, cached profile, language and
// push-notification bookkeeping. The language key survives every logout
// path; only SetLanguage and StoreUserData write it.
type Store struct {
	kv     domain.KeyValueStore
	logger zerolog.Logger

	mu       sync.Mutex
	watchers []*LanguageWatcher
	closed   bool
}

func NewStore(kv domain.KeyValueStore, logger zerolog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

func (s *Store) StoreToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	return s.kv.Set(ctx, KeyAuthToken, token)
}

// Token returns the stored token, or "" when there is no session.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyAuthToken)
	if err != nil {
		return "", fmt.Errorf("error reading token: %w", err)
	}
	return token, nil
}

// AuthToken lets the store act as the request helper's token source.
func (s *Store) AuthToken(ctx context.Context) (string, error) {
	return s.Token(ctx)
}

// RemoveToken is the logout primitive: token and profile go, language stays.
func (s *Store) RemoveToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyAuthToken, KeyUserData); err != nil {
		return fmt.Errorf("error removing token: %w", err)
	}
	s.logger.Debug().Msg("session token removed")
	return nil
}

// IsAuthenticated only checks presence. Expiry shows up as a 401 later.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

func (s *Store) StoreUserData(ctx context.Context, profile domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error encoding user data: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUserData, string(data)); err != nil {
		return fmt.Errorf("error storing user data: %w", err)
	}
	if lang := profile.LanguageCode(); lang != "" {
		if err := s.kv.Set(ctx, KeyLanguage, lang); err != nil {
			return fmt.Errorf("error storing language: %w", err)
		}
	}
	return nil
}

// UserData returns the cached profile, or nil when none is stored.
func (s *Store) UserData(ctx context.Context) (domain.UserProfile, error) {
	raw, found, err := s.kv.Get(ctx, KeyUserData)
	if err != nil {
		return nil, fmt.Errorf("error reading user data: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("error decoding user data: %w", err)
	}
	return profile, nil
}

func (s *Store) Language(ctx context.Context) (string, error) {
	lang, found, err := s.kv.Get(ctx, KeyLanguage)
	if err != nil {
		return "", fmt.Errorf("error reading language: %w", err)
	}
	if !found || lang == "" {
		return DefaultLanguage, nil
	}
	return lang, nil
}

func (s *Store) SetLanguage(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("language code must not be empty")
	}
	return s.kv.Set(ctx, KeyLanguage, code)
}

func (s *Store) StorePushToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, KeyPushToken, token); err != nil {
		return err
	}
	// A new device token has not been registered with the backend yet.
	return s.kv.Delete(ctx, KeyPushTokenRegistered)
}

func (s *Store) PushToken(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyPushToken)
	return token, err
}

func (s *Store) MarkPushTokenRegistered(ctx context.Context) error {
	return s.kv.Set(ctx, KeyPushTokenRegistered, "true")
}

func (s *Store) PushTokenRegistered(ctx context.Context) (bool, error) {
	v, _, err := s.kv.Get(ctx, KeyPushTokenRegistered)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// ClearAllData is the full logout. Language is kept.
func (s *Store) ClearAllData(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyAuthToken, KeyUserData, KeyPushToken, KeyPushTokenRegistered); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	s.logger.Debug().Msg("session data cleared")
	return nil
}

// Close stops every watcher started through WatchLanguage and closes the
// backing store.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	watchers := s.watchers
	s.watchers = nil
	s.mu.Unlock()

	for _, w := range watchers {
		w.Stop()
	}
	return s.kv.Close()
}
