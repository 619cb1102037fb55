// Package entity contains the core business objects of the project.
package entity

import "time"

// Contact is a single address-book record owned by one account.
// Ownership is enforced at the repository layer: queries are always scoped by
// AccountID, so one tenant can never observe another tenant's records.
type Contact struct {
	ID          int64     // Numeric identifier assigned by the store.
	AccountID   int64     // The owning account; immutable after creation.
	FirstName   string    // Contact's first name.
	LastName    string    // Contact's last name.
	Email       string    // Contact's email address.
	PhoneNumber string    // Contact's phone number.
	Birthday    time.Time // Date of birth; only the month and day matter for reminders.
	Description string    // Free-form note about the contact.
	CreatedAt   time.Time // Timestamp of record creation.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
