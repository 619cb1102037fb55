// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Account is the core identity entity. Every contact in the system belongs to
// exactly one account, and every credential operation (signup, login, refresh,
// logout) revolves around it.
type Account struct {
	ID           int64     // Numeric identifier assigned by the store on creation.
	Email        string    // Unique, lower-cased login identifier.
	Username     string    // Display name shown to the account holder.
	PasswordHash string    // bcrypt digest of the password. Never logged, never serialized.
	Role         Role      // Authorization role; defaults to RoleUser at signup.
	Confirmed    bool      // Set true exactly once by a successful email confirmation.
	RefreshToken *string   // Serialized form of the most recently issued refresh token, nil when logged out.
	AvatarURL    *string   // URL of the externally hosted avatar image, nil if never set.
	CreatedAt    time.Time // Timestamp of account creation; never mutated afterwards.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Email uniqueness and all account lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitized returns a copy of the account safe for response projections:
// the password hash and the stored refresh token are stripped.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}

	clone := *a
	clone.PasswordHash = ""
	clone.RefreshToken = nil

	return &clone
}
