package api

import (
	"context"
	"fmt"
	"net/http"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// GetUser fetches a user profile by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*pkgapi.User, error) {
	var user pkgapi.User
	err := c.doAuthed(ctx, http.MethodGet, "/users/"+userID, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &user, nil
}

// UpdateMe updates the current user's profile and returns the server's
// version of it. Callers should refresh the cached snapshot afterwards.
func (c *Client) UpdateMe(ctx context.Context, req pkgapi.UpdateUserRequest) (*pkgapi.User, error) {
	var user pkgapi.User
	err := c.doAuthed(ctx, http.MethodPatch, "/users/me", req, &user)
	if err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &user, nil
}
