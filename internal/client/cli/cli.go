package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	pkgapi "github.com/tradehub/tradehub-client/pkg/api"

	"github.com/tradehub/tradehub-client/internal/client/iocli"
	"github.com/tradehub/tradehub-client/internal/client/realtime"
	"github.com/tradehub/tradehub-client/internal/client/session"
)

//go:generate moq -out marketplace_mock.go . MarketplaceAPI

// MarketplaceAPI is the slice of the HTTP client the read commands need.
type MarketplaceAPI interface {
	ListListings(ctx context.Context, page, limit int, category, location string) (*pkgapi.ListingsPage, error)
	ListNotifications(ctx context.Context, page, limit int) (*pkgapi.NotificationsPage, error)
	UnreadCount(ctx context.Context) (int, error)
}

// Passwords carries the non-interactive password sources given on the
// command line.
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io       iocli.IO
	sessions *session.Manager
	market   MarketplaceAPI
	channel  *realtime.Channel
}

func New(io iocli.IO, sessions *session.Manager, market MarketplaceAPI, channel *realtime.Channel) *Cli {
	return &Cli{
		io:       io,
		sessions: sessions,
		market:   market,
		channel:  channel,
	}
}

// Run dispatches one command. Errors are printed and turned into a non-zero
// exit code by the caller.
func (c *Cli) Run(ctx context.Context, command string, args []string, passwords Passwords) error {
	switch command {
	case "register":
		return c.runRegister(ctx, passwords)
	case "login":
		return c.runLogin(ctx, passwords)
	case "login-google":
		return c.runLoginGoogle(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "listings":
		return c.runListings(ctx, args)
	case "notifications":
		return c.runNotifications(ctx, args)
	case "watch":
		return c.runWatch(ctx)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// getPassword resolves the account password with priority:
// 1. TRADEHUB_PASSWORD environment variable
// 2. --password-file
// 3. --password
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	if envPassword := os.Getenv("TRADEHUB_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func PrintUsage() {
	fmt.Println("TradeHub Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tradehub [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --config PATH          Path to YAML config file")
	fmt.Println("  --server URL           API base URL (default: http://localhost:3001/api/v1)")
	fmt.Println("  --db PATH              Path to local session database (default: tradehub-client.db)")
	fmt.Println("  --password PASSWORD    Account password (not recommended, use env var or file)")
	fmt.Println("  --password-file PATH   Path to file containing the account password")
	fmt.Println()
	fmt.Println("Password Priority (highest to lowest):")
	fmt.Println("  1. TRADEHUB_PASSWORD environment variable")
	fmt.Println("  2. --password-file (file path)")
	fmt.Println("  3. --password (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register        Create a new account")
	fmt.Println("  login           Sign in with email and password")
	fmt.Println("  login-google    Sign in through Google")
	fmt.Println("  logout          Delete the local session")
	fmt.Println("  status          Show session status")
	fmt.Println("  whoami          Show the signed-in profile")
	fmt.Println("  listings        Browse job listings")
	fmt.Println("  notifications   Show notifications")
	fmt.Println("  watch           Stream realtime events")
}
