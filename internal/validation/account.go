package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern is the minimal shape check applied client-side.
// Full address validation stays on the server; this only catches obvious
// typos before a network round trip.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinPasswordLen is the minimum password length accepted at registration
	MinPasswordLen = 8
	// MaxNameLen is the maximum display name length
	MaxNameLen = 64
)

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email is not a valid address")
	}

	return nil
}

// ValidatePassword checks the minimal password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateName checks the display name used at registration.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}

// ValidateRegistrationRole checks a role chosen at registration.
// Only client and contractor accounts are self-registered; admin accounts
// are provisioned server-side.
func ValidateRegistrationRole(role string) error {
	switch role {
	case "client", "contractor":
		return nil
	case "admin":
		return fmt.Errorf("admin accounts cannot be self-registered")
	default:
		return fmt.Errorf("unknown role %q: must be client or contractor", role)
	}
}
