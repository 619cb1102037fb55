package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"rolodex/internal/domain/entity"
	"rolodex/internal/domain/repository"
	"rolodex/internal/infra/persistence/model"
)

// contactRepository implements the domain.ContactRepository interface using GORM.
// Every query carries the account_id predicate; ownership is enforced here, not
// in the handlers.
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository is the constructor for contactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

// List retrieves contacts for the account with pagination, oldest first.
func (repo *contactRepository) List(ctx context.Context, accountID int64, limit, offset int) ([]*entity.Contact, error) {
	var contactMs []*model.ContactModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&contactMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}

	return toContactDomains(contactMs), nil
}

// FindByID retrieves a single contact owned by the account.
func (repo *contactRepository) FindByID(ctx context.Context, accountID, contactID int64) (*entity.Contact, error) {
	var contactM model.ContactModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", contactID, accountID).
		First(&contactM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContactNotFound
		}

		return nil, errors.Wrap(err, "failed to find contact by id")
	}

	return toContactDomain(&contactM), nil
}

// Create persists a new contact for the account.
func (repo *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	contactM := fromContactDomain(contact)

	if err := repo.db.WithContext(ctx).Create(contactM).Error; err != nil {
		return errors.Wrap(err, "failed to create contact")
	}

	contact.ID = contactM.ID
	contact.CreatedAt = contactM.CreatedAt
	contact.UpdatedAt = contactM.UpdatedAt

	return nil
}

// Update modifies an existing contact owned by the account.
func (repo *contactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	contactM := fromContactDomain(contact)

	result := repo.db.WithContext(ctx).
		Model(&model.ContactModel{}).
		Where("id = ? AND account_id = ?", contact.ID, contact.AccountID).
		Updates(map[string]any{
			"first_name":   contactM.FirstName,
			"last_name":    contactM.LastName,
			"email":        contactM.Email,
			"phone_number": contactM.PhoneNumber,
			"birthday":     contactM.Birthday,
			"description":  contactM.Description,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update contact")
	}
	if result.RowsAffected == 0 {
		return repository.ErrContactNotFound
	}

	return nil
}

// Delete removes a contact owned by the account.
func (repo *contactRepository) Delete(ctx context.Context, accountID, contactID int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", contactID, accountID).
		Delete(&model.ContactModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete contact")
	}
	if result.RowsAffected == 0 {
		return repository.ErrContactNotFound
	}

	return nil
}

// Search retrieves the account's contacts matching the filter. Set fields are
// combined with AND and matched case-insensitively as substrings.
func (repo *contactRepository) Search(ctx context.Context, accountID int64, filter repository.ContactFilter) ([]*entity.Contact, error) {
	query := repo.db.WithContext(ctx).Where("account_id = ?", accountID)

	if filter.FirstName != "" {
		query = query.Where("LOWER(first_name) LIKE ?", likePattern(filter.FirstName))
	}
	if filter.LastName != "" {
		query = query.Where("LOWER(last_name) LIKE ?", likePattern(filter.LastName))
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", likePattern(filter.Email))
	}

	var contactMs []*model.ContactModel
	if err := query.Order("id ASC").Find(&contactMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to search contacts")
	}

	return toContactDomains(contactMs), nil
}

// FindByBirthdayKeys retrieves the account's contacts whose birthday month-day
// matches one of the "MM-DD" keys. Matching on month-day ignores the birth
// year and survives the December-to-January wrap.
func (repo *contactRepository) FindByBirthdayKeys(ctx context.Context, accountID int64, keys []string) ([]*entity.Contact, error) {
	if len(keys) == 0 {
		return []*entity.Contact{}, nil
	}

	var contactMs []*model.ContactModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("to_char(birthday, 'MM-DD') IN ?", keys).
		Order("id ASC").
		Find(&contactMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find contacts by birthday")
	}

	return toContactDomains(contactMs), nil
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

// --- Mapper Functions ---

func toContactDomain(data *model.ContactModel) *entity.Contact {
	if data == nil {
		return nil
	}

	return &entity.Contact{
		ID:          data.ID,
		AccountID:   data.AccountID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Birthday:    data.Birthday,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toContactDomains(data []*model.ContactModel) []*entity.Contact {
	contacts := make([]*entity.Contact, 0, len(data))
	for _, contactM := range data {
		contacts = append(contacts, toContactDomain(contactM))
	}

	return contacts
}

func fromContactDomain(data *entity.Contact) *model.ContactModel {
	if data == nil {
		return nil
	}

	return &model.ContactModel{
		ID:          data.ID,
		AccountID:   data.AccountID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Birthday:    data.Birthday,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
