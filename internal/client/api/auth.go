package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// Login authenticates a user with email and password.
func (c *Client) Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.AuthResponse, error) {
	var resp pkgapi.AuthResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.AuthResponse, error) {
	var resp pkgapi.AuthResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// GetProfile fetches the current user's profile. Bearer-authenticated, so an
// expired access token is refreshed transparently.
func (c *Client) GetProfile(ctx context.Context) (*pkgapi.User, error) {
	var user pkgapi.User
	err := c.doAuthed(ctx, http.MethodGet, "/auth/profile", nil, &user)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &user, nil
}

// ChangePassword updates the current user's password.
func (c *Client) ChangePassword(ctx context.Context, req pkgapi.ChangePasswordRequest) error {
	err := c.doAuthed(ctx, http.MethodPost, "/auth/change-password", req, nil)
	if err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// ProviderAuthURL returns the external identity provider's authorization URL
// for the given role. The URL is navigated to by the user, never called by
// this client; the provider redirects back with tokens in the query string.
func (c *Client) ProviderAuthURL(provider, role string) string {
	return fmt.Sprintf("%s/%s/auth-url?role=%s", c.baseURL, provider, url.QueryEscape(role))
}
