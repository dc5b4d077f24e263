package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"assetmobile/internal/domain"
	"assetmobile/internal/navigation"
	"assetmobile/internal/session"
	"assetmobile/pkg/sdk"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var ErrMissingCredentials = errors.New("email and password are required")

type LoginClient interface {
	Login(ctx context.Context, email, password string) (*sdk.LoginResponse, error)
}

type Service struct {
	client  LoginClient
	session *session.Store
	nav     *navigation.Map
	logger  zerolog.Logger
}

func NewService(client LoginClient, store *session.Store, nav *navigation.Map, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: store,
		nav:     nav,
		logger:  logger,
	}
}

// State is what the screens need after login or on start-up. A navigation
// failure does not undo the login; NavigationErr carries it and Menu is empty.
type State struct {
	Profile       domain.UserProfile
	Menu          []domain.NavigationEntry
	NavigationErr error
}

func (s *Service) Login(ctx context.Context, email, password string) (*State, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.session.StoreToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	profile := domain.UserProfile(resp.User)
	if profile == nil {
		profile = domain.UserProfile{}
	}
	if err := s.session.StoreUserData(ctx, profile); err != nil {
		if rmErr := s.session.RemoveToken(ctx); rmErr != nil {
			s.logger.Error().Err(rmErr).Msg("could not roll back token after failed login")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", profile.ID()).Str("job_role_id", profile.JobRoleID()).Msg("logged in")
	return s.loadState(ctx, profile), nil
}

// Restore rebuilds state from a persisted session.
func (s *Service) Restore(ctx context.Context) (*State, error) {
	ok, err := s.session.IsAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, session.ErrNotAuthenticated
	}
	profile, err := s.session.UserData(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadState(ctx, profile), nil
}

func (s *Service) loadState(ctx context.Context, profile domain.UserProfile) *State {
	state := &State{Profile: profile}
	if _, err := s.nav.LoadForUser(ctx); err != nil {
		state.NavigationErr = err
		return state
	}
	state.Menu = s.nav.Menu()
	return state
}

// Logout drops the token, profile and menu. Language and push registration stay.
func (s *Service) Logout(ctx context.Context) error {
	s.nav.Reset()
	if err := s.session.RemoveToken(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("logged out")
	return nil
}

// Wipe is a full sign-out that also forgets push-notification identifiers.
func (s *Service) Wipe(ctx context.Context) error {
	s.nav.Reset()
	return s.session.ClearAllData(ctx)
}

// TokenExpiry reads the exp claim without verifying the signature. It is
// informational only; the server decides validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
