// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"rolodex/internal/domain/entity"
	"rolodex/internal/domain/repository"
	"rolodex/internal/infra/persistence/model"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its numeric ID.
func (repo *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).First(&accountM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its normalized email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// Create persists a new account. The unique index on email enforces one account
// per address; violations surface as repository.ErrDuplicateEmail.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}

		return errors.Wrap(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account record.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}

		return errors.Wrap(err, "failed to update account")
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// UpdateRefreshToken sets the stored refresh-token value; nil clears it.
func (repo *accountRepository) UpdateRefreshToken(ctx context.Context, id int64, token *string) error {
	return repo.updateColumn(ctx, id, "refresh_token", token, "failed to update refresh token")
}

// UpdateConfirmed marks the account's email as confirmed.
func (repo *accountRepository) UpdateConfirmed(ctx context.Context, id int64, confirmed bool) error {
	return repo.updateColumn(ctx, id, "confirmed", confirmed, "failed to update confirmed flag")
}

// UpdateAvatar sets the account's avatar URL.
func (repo *accountRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	return repo.updateColumn(ctx, id, "avatar_url", avatarURL, "failed to update avatar url")
}

func (repo *accountRepository) updateColumn(ctx context.Context, id int64, column string, value any, wrapMsg string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return errors.Wrap(result.Error, wrapMsg)
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Role:         entity.Role(data.Role),
		Confirmed:    data.Confirmed,
		RefreshToken: data.RefreshToken,
		AvatarURL:    data.AvatarURL,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Role:         data.Role.String(),
		Confirmed:    data.Confirmed,
		RefreshToken: data.RefreshToken,
		AvatarURL:    data.AvatarURL,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
