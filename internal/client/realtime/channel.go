package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

const (
	subprotocol  = "tradehub.realtime.v1"
	maxReadBytes = 1 << 20 // 1MiB
)

// Channel maintains the authenticated push connection for notifications and
// chat events. It authenticates with the current access token at dial time
// and does not participate in the transport's refresh protocol: when its
// authentication expires the connection error is surfaced through OnError,
// and reconnecting with a fresh token is the caller's responsibility.
type Channel struct {
	sessions storage.SessionStorage
	logger   *slog.Logger
	url      string

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}

	onNotification func(pkgapi.Notification)
	onNewMessage   func(pkgapi.Message)
	onTyping       func(pkgapi.TypingPayload)
	onError        func(error)
}

// NewChannel creates a realtime channel dialing url.
func NewChannel(url string, sessions storage.SessionStorage, logger *slog.Logger) *Channel {
	return &Channel{
		url:      url,
		sessions: sessions,
		logger:   logger,
	}
}

// OnNotification registers the handler for notification events.
func (c *Channel) OnNotification(fn func(pkgapi.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotification = fn
}

// OnNewMessage registers the handler for new chat messages.
func (c *Channel) OnNewMessage(fn func(pkgapi.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNewMessage = fn
}

// OnTyping registers the handler for typing indicators.
func (c *Channel) OnTyping(fn func(pkgapi.TypingPayload)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTyping = fn
}

// OnError registers the handler for connection errors.
func (c *Channel) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// Connect opens the connection authenticated with the current access token.
// A no-op when no access token is stored or a connection is already open.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	session, err := c.sessions.GetSession(ctx)
	if err != nil || session.AccessToken == "" {
		c.logger.Debug("realtime connect skipped: no access token")
		return nil
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+session.AccessToken)

	conn, resp, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{
		Subprotocols: []string{subprotocol},
		HTTPHeader:   header,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("realtime dial failed: %w", err)
	}
	conn.SetReadLimit(maxReadBytes)

	readCtx, cancel := context.WithCancel(context.Background())
	c.conn = conn
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.readLoop(readCtx, conn, c.done)

	c.logger.Info("realtime channel connected", "url", c.url)
	return nil
}

// Disconnect tears down any open connection. Safe to call repeatedly.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	done := c.done
	c.conn = nil
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}

	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "client disconnect")
	<-done
	c.logger.Info("realtime channel disconnected")
}

// IsConnected reports whether a connection is currently open.
func (c *Channel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// readLoop reads and dispatches events until the connection drops or the
// channel is disconnected.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.handleReadError(ctx, conn, err)
			return
		}

		var event pkgapi.Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Warn("dropping malformed realtime event", "error", err)
			continue
		}

		c.dispatch(event)
	}
}

// handleReadError distinguishes deliberate teardown from real failures.
func (c *Channel) handleReadError(ctx context.Context, conn *websocket.Conn, err error) {
	// Forget the dead connection so a later Connect is not a no-op
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.cancel = nil
		c.done = nil
	}
	onError := c.onError
	c.mu.Unlock()

	if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return
	}

	c.logger.Warn("realtime connection lost", "error", err)
	if onError != nil {
		onError(err)
	}
}

// dispatch routes one decoded event to its registered handler.
// Unknown event types are logged and dropped.
func (c *Channel) dispatch(event pkgapi.Event) {
	c.mu.Lock()
	onNotification := c.onNotification
	onNewMessage := c.onNewMessage
	onTyping := c.onTyping
	c.mu.Unlock()

	switch event.Event {
	case pkgapi.EventNotification:
		if onNotification == nil {
			return
		}
		var n pkgapi.Notification
		if err := json.Unmarshal(event.Payload, &n); err != nil {
			c.logger.Warn("dropping malformed notification payload", "error", err)
			return
		}
		onNotification(n)

	case pkgapi.EventNewMessage:
		if onNewMessage == nil {
			return
		}
		var msg pkgapi.Message
		if err := json.Unmarshal(event.Payload, &msg); err != nil {
			c.logger.Warn("dropping malformed message payload", "error", err)
			return
		}
		onNewMessage(msg)

	case pkgapi.EventTyping:
		if onTyping == nil {
			return
		}
		var typing pkgapi.TypingPayload
		if err := json.Unmarshal(event.Payload, &typing); err != nil {
			c.logger.Warn("dropping malformed typing payload", "error", err)
			return
		}
		onTyping(typing)

	default:
		c.logger.Debug("ignoring unknown realtime event", "event", event.Event)
	}
}
