package navigation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"assetmobile/internal/domain"
	"assetmobile/pkg/sdk"

	"github.com/rs/zerolog"
)

var (
	ErrAuthConsistency = errors.New("navigation does not match the session profile")
	ErrForbidden       = errors.New("access denied")
	ErrNotLoaded       = errors.New("navigation not loaded")
)

// ConsistencyError is returned when the navigation payload names a
// different job role than the cached profile, or either side has none.
type ConsistencyError struct {
	Expected string
	Got      string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: profile job role %q, payload job role %q", ErrAuthConsistency, e.Expected, e.Got)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrAuthConsistency
}

type Fetcher interface {
	Navigation(ctx context.Context) (*sdk.NavigationPayload, error)
}

type ProfileSource interface {
	UserData(ctx context.Context) (domain.UserProfile, error)
}

// Set is one user's navigation entries in server order.
type Set []domain.NavigationEntry

// Map holds the signed-in user's navigation set. After a failed load it
// holds no entries and reports the failure from Err.
type Map struct {
	fetcher  Fetcher
	profiles ProfileSource
	logger   zerolog.Logger

	mu      sync.RWMutex
	entries Set
	err     error
}

func NewMap(fetcher Fetcher, profiles ProfileSource, logger zerolog.Logger) *Map {
	return &Map{
		fetcher:  fetcher,
		profiles: profiles,
		logger:   logger,
		err:      ErrNotLoaded,
	}
}

func (m *Map) LoadForUser(ctx context.Context) (Set, error) {
	set, err := m.load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.entries = nil
		m.err = err
		m.logger.Warn().Err(err).Msg("navigation load failed")
		return nil, err
	}
	m.entries = set
	m.err = nil
	m.logger.Debug().Int("entries", len(set)).Msg("navigation loaded")
	return set, nil
}

func (m *Map) load(ctx context.Context) (Set, error) {
	profile, err := m.profiles.UserData(ctx)
	if err != nil {
		return nil, err
	}
	expected := profile.JobRoleID()
	if expected == "" {
		return nil, &ConsistencyError{}
	}

	payload, err := m.fetcher.Navigation(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching navigation: %w", err)
	}
	if payload.JobRoleID != expected {
		return nil, &ConsistencyError{Expected: expected, Got: payload.JobRoleID}
	}

	set := make(Set, 0, len(payload.Entries))
	for _, item := range payload.Entries {
		if item.AppID == "" {
			continue
		}
		label := item.Label
		if label == "" {
			label = item.AppID
		}
		set = append(set, domain.NavigationEntry{
			AppID:       item.AppID,
			Label:       label,
			AccessLevel: domain.ParseAccessLevel(item.AccessLevel),
			SortOrder:   item.SortOrder,
		})
	}
	return set, nil
}

// Reset drops the loaded set, as on logout.
func (m *Map) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.err = ErrNotLoaded
}

func (m *Map) Entries() Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(Set(nil), m.entries...)
}

func (m *Map) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

func (m *Map) HasAccess(appID string, required domain.AccessLevel) bool {
	return HasAccess(m.Entries(), appID, required)
}

func (m *Map) Require(appID string, required domain.AccessLevel) error {
	if err := m.Err(); err != nil {
		return err
	}
	if !m.HasAccess(appID, required) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, appID, required)
	}
	return nil
}

func (m *Map) Menu() []domain.NavigationEntry {
	return Sorted(m.Entries())
}

// HasAccess ranks the first entry for appID against required.
func HasAccess(set Set, appID string, required domain.AccessLevel) bool {
	for _, e := range set {
		if e.AppID == appID {
			return e.AccessLevel.Satisfies(required)
		}
	}
	return false
}

// Sorted keeps the first entry per app_id and orders by sort_order, ties in
// server order.
func Sorted(set Set) []domain.NavigationEntry {
	seen := make(map[string]bool, len(set))
	out := make([]domain.NavigationEntry, 0, len(set))
	for _, e := range set {
		if seen[e.AppID] {
			continue
		}
		seen[e.AppID] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}
