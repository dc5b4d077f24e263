package sdk

import (
	"context"
	"errors"
)

const (
	LoginPath       = "/api/auth/login"
	CurrentUserPath = "/api/users/me"
	NavigationPath  = "/api/navigation/user"
)

var ErrMissingToken = errors.New("login response carried no token")

// Login is normally sent before any session exists, so it goes out with
// the default bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var raw any
	if err := c.post(ctx, LoginPath, LoginRequest{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}
	resp := normalizeLogin(raw)
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	return &resp, nil
}

func (c *Client) CurrentUser(ctx context.Context) (map[string]any, error) {
	var raw any
	if err := c.get(ctx, CurrentUserPath, &raw); err != nil {
		return nil, err
	}
	return objectPayload(raw, "user", "data"), nil
}

func (c *Client) Navigation(ctx context.Context) (*NavigationPayload, error) {
	var raw any
	if err := c.get(ctx, NavigationPath, &raw); err != nil {
		return nil, err
	}
	p := normalizeNavigation(raw)
	return &p, nil
}
