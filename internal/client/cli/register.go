package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context, passwords Passwords) error {
	c.io.Println("=== Register ===")
	c.io.Println()

	name, err := c.io.ReadInput("Full name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	role, err := c.io.ReadInput("Role (client/contractor) [client]: ")
	if err != nil {
		return fmt.Errorf("failed to read role: %w", err)
	}
	if role == "" {
		role = pkgapi.RoleClient
	}

	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Creating account...")

	user, err := c.sessions.Register(ctx, name, email, password, role)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}
