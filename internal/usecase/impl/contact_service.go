package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "rolodex/internal/delivery/context"
	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/repository"
	"rolodex/internal/usecase"
)

const (
	defaultContactPageSize = 100
	maxContactPageSize     = 500

	// birthdayWindowDays is the lookahead for upcoming birthdays, today included.
	birthdayWindowDays = 7
)

// contactService implements the ContactUsecase interface. Ownership is
// enforced by the repository; this layer never sees another account's rows.
type contactService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// ContactServiceParams holds dependencies for contactService, injected by Fx.
type ContactServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewContactService is the constructor for contactService.
func NewContactService(params ContactServiceParams) usecase.ContactUsecase {
	return &contactService{
		txManager: params.TxManager,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (srv *contactService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List retrieves the account's contacts with pagination.
func (srv *contactService) List(ctx context.Context, accountID int64, input usecase.ListContactsInput) ([]*entity.Contact, error) {
	limit := clampPageSize(input.Limit)
	offset := max(input.Offset, 0)

	var contacts []*entity.Contact
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ContactRepo().List(ctx, accountID, limit, offset)
		if err != nil {
			return errors.Wrap(err, "failed to list contacts")
		}
		contacts = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contact list transaction")
	}

	return contacts, nil
}

// Get retrieves a single contact owned by the account.
func (srv *contactService) Get(ctx context.Context, accountID, contactID int64) (*entity.Contact, error) {
	var contact *entity.Contact
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ContactRepo().FindByID(ctx, accountID, contactID)
		if err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return domainerrors.ErrContactNotFound.WrapMessage("contact lookup failed")
			}

			return errors.Wrap(err, "failed to find contact")
		}
		contact = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contact lookup transaction")
	}

	return contact, nil
}

// Create persists a new contact for the account.
func (srv *contactService) Create(ctx context.Context, accountID int64, input usecase.ContactInput) (*entity.Contact, error) {
	contact := &entity.Contact{
		AccountID:   accountID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Birthday:    input.Birthday,
		Description: input.Description,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.ContactRepo().Create(ctx, contact), "failed to create contact")
	})
	if err != nil {
		srv.log(ctx).Warn("Contact creation failed", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute contact creation transaction")
	}

	srv.log(ctx).Debug("Contact created", slog.Int64("accountID", accountID), slog.Int64("contactID", contact.ID))

	return contact, nil
}

// Update modifies an existing contact owned by the account.
func (srv *contactService) Update(ctx context.Context, accountID, contactID int64, input usecase.ContactInput) (*entity.Contact, error) {
	var contact *entity.Contact
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		contactRepo := repoFactory.ContactRepo()

		updated := &entity.Contact{
			ID:          contactID,
			AccountID:   accountID,
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			Email:       input.Email,
			PhoneNumber: input.PhoneNumber,
			Birthday:    input.Birthday,
			Description: input.Description,
		}

		if err := contactRepo.Update(ctx, updated); err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return domainerrors.ErrContactNotFound.WrapMessage("contact update failed")
			}

			return errors.Wrap(err, "failed to update contact")
		}

		found, err := contactRepo.FindByID(ctx, accountID, contactID)
		if err != nil {
			return errors.Wrap(err, "failed to reload contact after update")
		}
		contact = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contact update transaction")
	}

	return contact, nil
}

// Delete removes a contact owned by the account.
func (srv *contactService) Delete(ctx context.Context, accountID, contactID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ContactRepo().Delete(ctx, accountID, contactID); err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return domainerrors.ErrContactNotFound.WrapMessage("contact deletion failed")
			}

			return errors.Wrap(err, "failed to delete contact")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute contact deletion transaction")
	}

	srv.log(ctx).Debug("Contact deleted", slog.Int64("accountID", accountID), slog.Int64("contactID", contactID))

	return nil
}

// Search retrieves the account's contacts matching the criteria.
func (srv *contactService) Search(ctx context.Context, accountID int64, input usecase.SearchContactsInput) ([]*entity.Contact, error) {
	filter := repository.ContactFilter{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}

	var contacts []*entity.Contact
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ContactRepo().Search(ctx, accountID, filter)
		if err != nil {
			return errors.Wrap(err, "failed to search contacts")
		}
		contacts = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contact search transaction")
	}

	return contacts, nil
}

// UpcomingBirthdays returns contacts whose birthday month-day falls within the
// next seven days, today included. Matching on month-day keys handles the
// year-end wrap without date arithmetic on birth years.
func (srv *contactService) UpcomingBirthdays(ctx context.Context, accountID int64) ([]*entity.Contact, error) {
	keys := birthdayKeys(srv.now(), birthdayWindowDays)

	var contacts []*entity.Contact
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ContactRepo().FindByBirthdayKeys(ctx, accountID, keys)
		if err != nil {
			return errors.Wrap(err, "failed to find upcoming birthdays")
		}
		contacts = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute birthday lookup transaction")
	}

	return contacts, nil
}

// birthdayKeys builds the "MM-DD" keys for the window starting at from.
func birthdayKeys(from time.Time, days int) []string {
	keys := make([]string, 0, days)
	for i := range days {
		keys = append(keys, from.AddDate(0, 0, i).Format("01-02"))
	}

	return keys
}

func clampPageSize(limit int) int {
	switch {
	case limit <= 0:
		return defaultContactPageSize
	case limit > maxContactPageSize:
		return maxContactPageSize
	default:
		return limit
	}
}
