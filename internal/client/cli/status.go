package cli

import (
	"context"
	"fmt"

	"github.com/tradehub/tradehub-client/internal/client/session"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	if err := c.sessions.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}

	if c.sessions.State() != session.StateAuthenticated {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'tradehub login' to authenticate.")
		return nil
	}

	user := c.sessions.CurrentUser()
	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Printf("Role:  %s\n", user.Role)
	if user.IsVerified {
		c.io.Println("✓ Account verified")
	}
	return nil
}

func (c *Cli) runWhoami(ctx context.Context) error {
	if err := c.sessions.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if c.sessions.State() != session.StateAuthenticated {
		return fmt.Errorf("not authenticated. Please run 'tradehub login' first")
	}

	user := c.sessions.CurrentUser()

	c.io.Printf("ID:       %s\n", user.ID)
	c.io.Printf("Name:     %s\n", user.Name)
	c.io.Printf("Email:    %s\n", user.Email)
	c.io.Printf("Role:     %s\n", user.Role)
	if user.Trade != "" {
		c.io.Printf("Trade:    %s\n", user.Trade)
	}
	if user.HourlyRate > 0 {
		c.io.Printf("Rate:     %.2f/h\n", user.HourlyRate)
	}
	if user.AverageRating > 0 {
		c.io.Printf("Rating:   %.1f\n", user.AverageRating)
	}
	c.io.Printf("Verified: %t\n", user.IsVerified)
	if user.SubscriptionPlan != "" {
		c.io.Printf("Plan:     %s\n", user.SubscriptionPlan)
	}
	return nil
}
