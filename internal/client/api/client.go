package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// ErrSessionExpired is returned when a 401 could not be recovered by a token
// refresh: the refresh token is missing, rejected, or the refresh call failed.
// The session store is already cleared when this error is returned; the
// caller should send the user back to login.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError represents a non-2xx response from the server.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client is the HTTP transport every REST call goes through. It attaches the
// stored bearer token to outgoing requests and recovers a 401 with exactly
// one refresh-and-retry per original request.
type Client struct {
	httpClient *http.Client
	sessions   storage.SessionStorage
	logger     *slog.Logger
	baseURL    string

	// Concurrent 401 handlers share a single in-flight refresh call
	// instead of each racing its own.
	refreshGroup singleflight.Group
}

// NewClient creates a new API client.
// sessions is the session store tokens are read from and written to.
func NewClient(baseURL string, sessions storage.SessionStorage, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		sessions: sessions,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Keep the Authorization header across redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// doRequest performs an unauthenticated request. The auth endpoints
// themselves (login, register, refresh) go through here so that their own
// 401s are never mistaken for an expired access token.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	return c.send(ctx, method, path, body, result, "")
}

// doAuthed performs a bearer-authenticated request and implements the
// refresh-on-401 contract: on the first 401 the client refreshes the token
// pair once and re-sends the original request with the new access token. A
// second 401, or any refresh failure, is terminal.
func (c *Client) doAuthed(ctx context.Context, method, path string, body, result interface{}) error {
	token := c.currentAccessToken(ctx)

	err := c.send(ctx, method, path, body, result, token)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return err
	}

	newToken, refreshErr := c.refreshTokens(ctx)
	if refreshErr != nil {
		// Unrecoverable: wipe the session so the next start is a clean
		// unauthenticated load, and surface both the expiry and the
		// original 401 to the caller.
		if delErr := c.sessions.DeleteSession(ctx); delErr != nil {
			c.logger.Error("failed to clear session after refresh failure", "error", delErr)
		}
		c.logger.Warn("token refresh failed", "error", refreshErr)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	// Exactly one retry with the refreshed token; its result, 401 included,
	// goes straight back to the caller.
	return c.send(ctx, method, path, body, result, newToken)
}

// refreshTokens exchanges the stored refresh token for a new token pair and
// persists it. Concurrent callers are coalesced into one refresh call.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		session, err := c.sessions.GetSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("no stored session: %w", err)
		}
		if session.RefreshToken == "" {
			return nil, fmt.Errorf("no refresh token stored")
		}

		var tokens pkgapi.TokenPair
		req := pkgapi.RefreshRequest{RefreshToken: session.RefreshToken}
		if err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", req, &tokens); err != nil {
			return nil, fmt.Errorf("refresh request failed: %w", err)
		}

		session.AccessToken = tokens.AccessToken
		// The server may rotate the refresh token; prefer the rotated one
		// and keep the stored one otherwise.
		if tokens.RefreshToken != "" {
			session.RefreshToken = tokens.RefreshToken
		}

		if err := c.sessions.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed tokens: %w", err)
		}

		c.logger.Debug("access token refreshed")
		return tokens.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// currentAccessToken returns the stored access token, or "" when there is no
// session: the request is then sent unauthenticated and the server decides.
func (c *Client) currentAccessToken(ctx context.Context) string {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		return ""
	}
	return session.AccessToken
}

// send performs a single HTTP round trip. token, when non-empty, is attached
// as a bearer credential.
func (c *Client) send(ctx context.Context, method, path string, body, result interface{}, token string) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp pkgapi.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if result != nil {
		if err := decodeResult(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeResult unmarshals a response body into result, unwrapping the
// server's {"data": ...} envelope when present and tolerating bare payloads.
func decodeResult(body []byte, result interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, result)
	}
	return json.Unmarshal(body, result)
}
