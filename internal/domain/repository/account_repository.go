// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"rolodex/internal/domain/entity"
)

// Domain-specific errors for account persistence. The application layer matches
// on these instead of database driver errors.
var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email
	// constraint. Concurrent signups with the same email have exactly one
	// winner; the loser observes this error.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository defines the standard operations for account persistence.
// Lookups by email expect the caller to pass a normalized (lower-cased) address.
type AccountRepository interface {
	// FindByID retrieves a single account by its numeric ID.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByEmail retrieves a single account by its normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account. The store assigns ID and timestamps and
	// enforces email uniqueness.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account record.
	Update(ctx context.Context, account *entity.Account) error

	// UpdateRefreshToken sets the stored refresh-token value for the account;
	// nil invalidates all future refresh attempts (logout).
	UpdateRefreshToken(ctx context.Context, id int64, token *string) error

	// UpdateConfirmed marks the account's email as confirmed.
	UpdateConfirmed(ctx context.Context, id int64, confirmed bool) error

	// UpdateAvatar sets the account's avatar URL.
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
}
