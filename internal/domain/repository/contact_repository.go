// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"rolodex/internal/domain/entity"
)

// ErrContactNotFound is returned when a contact does not exist or belongs to a
// different account. The two cases are deliberately indistinguishable so tenants
// cannot probe each other's record IDs.
var ErrContactNotFound = errors.New("contact not found")

// ContactFilter holds the optional search criteria for contact lookups.
// Empty fields are ignored; set fields are combined with AND, case-insensitively.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactRepository defines the standard operations for contact persistence.
// Every operation is scoped to the owning account.
type ContactRepository interface {
	// List retrieves contacts for the account with pagination.
	List(ctx context.Context, accountID int64, limit, offset int) ([]*entity.Contact, error)

	// FindByID retrieves a single contact owned by the account.
	FindByID(ctx context.Context, accountID, contactID int64) (*entity.Contact, error)

	// Create persists a new contact for the account.
	Create(ctx context.Context, contact *entity.Contact) error

	// Update modifies an existing contact owned by the account.
	Update(ctx context.Context, contact *entity.Contact) error

	// Delete removes a contact owned by the account.
	Delete(ctx context.Context, accountID, contactID int64) error

	// Search retrieves the account's contacts matching the filter.
	Search(ctx context.Context, accountID int64, filter ContactFilter) ([]*entity.Contact, error)

	// FindByBirthdayKeys retrieves the account's contacts whose birthday
	// month-day matches one of the given "MM-DD" keys.
	FindByBirthdayKeys(ctx context.Context, accountID int64, keys []string) ([]*entity.Contact, error)
}
