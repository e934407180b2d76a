package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

type memSessionStorage struct {
	data *storage.SessionData
}

func (m *memSessionStorage) SaveSession(ctx context.Context, session *storage.SessionData) error {
	cp := *session
	m.data = &cp
	return nil
}

func (m *memSessionStorage) GetSession(ctx context.Context) (*storage.SessionData, error) {
	if m.data == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *m.data
	return &cp, nil
}

func (m *memSessionStorage) DeleteSession(ctx context.Context) error {
	m.data = nil
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// wsTestServer upgrades incoming requests and hands the server side of the
// connection to fn.
func wsTestServer(t *testing.T, fn func(ctx context.Context, conn *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: []string{subprotocol},
		})
		if err != nil {
			return
		}
		fn(r.Context(), conn, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestChannel_Connect_NoToken_IsNoop(t *testing.T) {
	dialed := false
	server := wsTestServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		dialed = true
	})

	ch := NewChannel(wsURL(server), &memSessionStorage{}, testLogger())

	err := ch.Connect(context.Background())

	require.NoError(t, err)
	assert.False(t, ch.IsConnected())
	assert.False(t, dialed)
}

func TestChannel_Connect_AuthenticatesWithStoredToken(t *testing.T) {
	authHeader := make(chan string, 1)
	server := wsTestServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		authHeader <- r.Header.Get("Authorization")
		// Keep the connection open until the client goes away
		_, _, _ = conn.Read(ctx)
	})

	sessions := &memSessionStorage{data: &storage.SessionData{AccessToken: "ws-access-token"}}
	ch := NewChannel(wsURL(server), sessions, testLogger())

	err := ch.Connect(context.Background())
	require.NoError(t, err)
	defer ch.Disconnect()

	assert.True(t, ch.IsConnected())

	select {
	case got := <-authHeader:
		assert.Equal(t, "Bearer ws-access-token", got)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the handshake")
	}

	// A second Connect while open is a no-op
	require.NoError(t, ch.Connect(context.Background()))
}

func TestChannel_DispatchesEvents(t *testing.T) {
	sendEvent := func(ctx context.Context, conn *websocket.Conn, event string, payload interface{}) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data, err := json.Marshal(pkgapi.Event{Event: event, Payload: raw})
		if err != nil {
			return err
		}
		return conn.Write(ctx, websocket.MessageText, data)
	}

	server := wsTestServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		require.NoError(t, sendEvent(ctx, conn, pkgapi.EventNotification, pkgapi.Notification{
			ID: "n1", Type: "application_received", Message: "New application on your listing",
		}))
		require.NoError(t, sendEvent(ctx, conn, pkgapi.EventNewMessage, pkgapi.Message{
			ID: "m1", ConversationID: "c1", Text: "hello",
		}))
		require.NoError(t, sendEvent(ctx, conn, pkgapi.EventTyping, pkgapi.TypingPayload{
			ConversationID: "c1", UserID: "u2", IsTyping: true,
		}))
		// Unknown events must be ignored without killing the stream
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":"escrow_released","payload":{}}`))
		_, _, _ = conn.Read(ctx)
	})

	sessions := &memSessionStorage{data: &storage.SessionData{AccessToken: "tok"}}
	ch := NewChannel(wsURL(server), sessions, testLogger())

	notifications := make(chan pkgapi.Notification, 1)
	messages := make(chan pkgapi.Message, 1)
	typings := make(chan pkgapi.TypingPayload, 1)
	ch.OnNotification(func(n pkgapi.Notification) { notifications <- n })
	ch.OnNewMessage(func(m pkgapi.Message) { messages <- m })
	ch.OnTyping(func(p pkgapi.TypingPayload) { typings <- p })

	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	select {
	case n := <-notifications:
		assert.Equal(t, "n1", n.ID)
		assert.Equal(t, "application_received", n.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
	}

	select {
	case m := <-messages:
		assert.Equal(t, "m1", m.ID)
		assert.Equal(t, "hello", m.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("message never dispatched")
	}

	select {
	case p := <-typings:
		assert.Equal(t, "u2", p.UserID)
		assert.True(t, p.IsTyping)
	case <-time.After(2 * time.Second):
		t.Fatal("typing event never dispatched")
	}
}

func TestChannel_Disconnect_Idempotent(t *testing.T) {
	server := wsTestServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		_, _, _ = conn.Read(ctx)
	})

	sessions := &memSessionStorage{data: &storage.SessionData{AccessToken: "tok"}}
	ch := NewChannel(wsURL(server), sessions, testLogger())

	// Disconnect before any connect is a no-op
	ch.Disconnect()

	require.NoError(t, ch.Connect(context.Background()))
	require.True(t, ch.IsConnected())

	ch.Disconnect()
	assert.False(t, ch.IsConnected())

	// And again
	ch.Disconnect()
	assert.False(t, ch.IsConnected())
}

func TestChannel_ServerClose_SurfacesError(t *testing.T) {
	server := wsTestServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		// Simulate an auth-expired kick from the server
		conn.Close(websocket.StatusPolicyViolation, "token expired")
	})

	sessions := &memSessionStorage{data: &storage.SessionData{AccessToken: "stale-tok"}}
	ch := NewChannel(wsURL(server), sessions, testLogger())

	errs := make(chan error, 1)
	ch.OnError(func(err error) { errs <- err })

	require.NoError(t, ch.Connect(context.Background()))

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
	case <-time.After(2 * time.Second):
		t.Fatal("connection error never surfaced")
	}

	// The dead connection is forgotten: no automatic reconnect happens,
	// but a fresh Connect is possible again
	assert.False(t, ch.IsConnected())
}
