package usecase

import (
	"context"
	"time"

	"rolodex/internal/domain/entity"
)

// --- Input DTOs ---

// ContactInput carries the writable fields of a contact for create and update.
type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Birthday    time.Time
	Description string
}

// ListContactsInput defines pagination for contact listings.
type ListContactsInput struct {
	Limit  int
	Offset int
}

// SearchContactsInput defines the optional search criteria. Empty fields are
// ignored; set fields are combined with AND.
type SearchContactsInput struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactUsecase defines the contact-book operations. Every operation is
// scoped to the calling account; contacts of other accounts are invisible.
type ContactUsecase interface {
	List(ctx context.Context, accountID int64, input ListContactsInput) ([]*entity.Contact, error)
	Get(ctx context.Context, accountID, contactID int64) (*entity.Contact, error)
	Create(ctx context.Context, accountID int64, input ContactInput) (*entity.Contact, error)
	Update(ctx context.Context, accountID, contactID int64, input ContactInput) (*entity.Contact, error)
	Delete(ctx context.Context, accountID, contactID int64) error
	Search(ctx context.Context, accountID int64, input SearchContactsInput) ([]*entity.Contact, error)

	// UpcomingBirthdays returns contacts whose birthday falls within the next
	// seven days, including today, regardless of birth year.
	UpcomingBirthdays(ctx context.Context, accountID int64) ([]*entity.Contact, error)
}
