package cli

import (
	"context"
	"flag"
	"fmt"
)

func (c *Cli) runNotifications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	unread, err := c.market.UnreadCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch unread count: %w", err)
	}

	result, err := c.market.ListNotifications(ctx, *page, *limit)
	if err != nil {
		return fmt.Errorf("failed to fetch notifications: %w", err)
	}

	c.io.Printf("Notifications (page %d, %d total, %d unread):\n", result.Page, result.Total, unread)
	c.io.Println()

	if len(result.Notifications) == 0 {
		c.io.Println("Nothing here yet.")
		return nil
	}

	for _, n := range result.Notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		c.io.Printf("%s [%s] %s\n", marker, n.Type, n.Message)
	}
	return nil
}
