package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context, passwords Passwords) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	user, err := c.sessions.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}

// runLoginGoogle drives the external-provider flow without a browser
// integration: the user opens the printed URL themselves and pastes the
// callback URL the provider redirects them to.
func (c *Cli) runLoginGoogle(ctx context.Context) error {
	c.io.Println("=== Login with Google ===")
	c.io.Println()

	role, err := c.io.ReadInput("Role if registering (client/contractor) [client]: ")
	if err != nil {
		return fmt.Errorf("failed to read role: %w", err)
	}
	if role == "" {
		role = pkgapi.RoleClient
	}

	authURL, err := c.sessions.ProviderAuthURL("google", role)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Open this URL in your browser and complete the sign-in:")
	c.io.Println()
	c.io.Printf("  %s\n", authURL)
	c.io.Println()

	callbackURL, err := c.io.ReadInput("Paste the URL you were redirected to: ")
	if err != nil {
		return fmt.Errorf("failed to read callback URL: %w", err)
	}

	_, consumed, err := c.sessions.ConsumeCallback(ctx, callbackURL)
	if err != nil {
		return err
	}
	if !consumed {
		return fmt.Errorf("no credentials found in the pasted URL")
	}

	user := c.sessions.CurrentUser()
	c.io.Println()
	c.io.Println("✓ Login successful!")
	if user != nil {
		c.io.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
	}
	return nil
}
