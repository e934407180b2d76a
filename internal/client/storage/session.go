package storage

import (
	"context"

	"github.com/tradehub/tradehub-client/pkg/api"
)

// SessionStorage defines the interface for persisting the authenticated
// session on the client. It is the single source of truth for "am I logged
// in": the session manager writes it, the transport reads it on every call.
type SessionStorage interface {
	// SaveSession stores user snapshot and both tokens in one write.
	// Subsequent reads see the new values immediately.
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves the stored session.
	// Returns ErrSessionNotFound if nothing is stored. A corrupted record
	// is reported the same way: the caller treats it as "not logged in".
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session (logout).
	// Deleting an already-absent session is not an error.
	DeleteSession(ctx context.Context) error
}

// SessionData is the persisted session record: the cached user snapshot plus
// the bearer credentials. Tokens are opaque strings stored as-is; the client
// never decodes them. Any field may be absent in an old or partial record —
// readers must tolerate that.
type SessionData struct {
	User         *api.User `json:"user,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	// ClientID is a per-install identifier generated on first login,
	// reused across sessions on the same machine.
	ClientID string `json:"client_id,omitempty"`
}
