package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// End-to-end refresh path against a server that issues and verifies real
// JWTs, the same shape the production backend signs. The client itself
// never inspects the tokens; expiry is discovered via the 401.
func TestClient_RefreshPath_WithRealJWTs(t *testing.T) {
	secret := []byte("test-signing-secret")

	mintToken := func(t *testing.T, userID string, ttl time.Duration) string {
		t.Helper()
		claims := jwt.MapClaims{
			"sub": userID,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(ttl).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return token
	}

	verifyToken := func(raw string) (string, bool) {
		parsed, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			return "", false
		}
		sub, err := parsed.Claims.GetSubject()
		if err != nil {
			return "", false
		}
		return sub, true
	}

	expiredAccess := mintToken(t, "user-123", -time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		sub, ok := verifyToken(raw)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Message: "invalid or expired token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": pkgapi.User{ID: sub, Name: "Alice", Role: pkgapi.RoleClient},
		})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != "valid-refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Message: "invalid refresh token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": pkgapi.TokenPair{
				AccessToken:  mintToken(t, "user-123", 15 * time.Minute),
				RefreshToken: "rotated-refresh",
				ExpiresIn:    900,
			},
		})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	sessions := &memSessionStorage{data: &storage.SessionData{
		AccessToken:  expiredAccess,
		RefreshToken: "valid-refresh",
	}}
	client := NewClient(server.URL, sessions, testLogger())

	user, err := client.GetProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "Alice", user.Name)

	stored := sessions.snapshot()
	require.NotNil(t, stored)
	assert.NotEqual(t, expiredAccess, stored.AccessToken)
	assert.Equal(t, "rotated-refresh", stored.RefreshToken)

	// The refreshed access token must itself verify
	_, ok := verifyToken(stored.AccessToken)
	assert.True(t, ok)
}
