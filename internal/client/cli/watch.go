package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"

	"github.com/tradehub/tradehub-client/internal/client/session"
)

// runWatch tails realtime events until the context is cancelled (Ctrl+C) or
// the connection drops. There is no automatic reconnect: when the server
// kicks the connection the command exits and the user runs it again.
func (c *Cli) runWatch(ctx context.Context) error {
	if err := c.sessions.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if c.sessions.State() != session.StateAuthenticated {
		return fmt.Errorf("not authenticated. Please run 'tradehub login' first")
	}

	connErrs := make(chan error, 1)

	c.channel.OnNotification(func(n pkgapi.Notification) {
		c.io.Printf("[notification] %s: %s\n", n.Type, n.Message)
	})
	c.channel.OnNewMessage(func(m pkgapi.Message) {
		c.io.Printf("[message] conversation %s: %s\n", m.ConversationID, m.Text)
	})
	c.channel.OnTyping(func(p pkgapi.TypingPayload) {
		if p.IsTyping {
			c.io.Printf("[typing] user %s is typing in %s\n", p.UserID, p.ConversationID)
		}
	})
	c.channel.OnError(func(err error) {
		select {
		case connErrs <- err:
		default:
		}
	})

	if err := c.channel.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if !c.channel.IsConnected() {
		return fmt.Errorf("not authenticated. Please run 'tradehub login' first")
	}
	defer c.channel.Disconnect()

	c.io.Println("Watching for events. Press Ctrl+C to stop.")
	c.io.Println()

	select {
	case <-ctx.Done():
		c.io.Println()
		c.io.Println("Stopped.")
		return nil
	case err := <-connErrs:
		return fmt.Errorf("connection lost: %w", err)
	}
}
