package usecase

import (
	"context"

	"rolodex/internal/domain/entity"
)

// AccountUsecase exposes operations on the authenticated account itself.
type AccountUsecase interface {
	// Me returns the account's current record.
	Me(ctx context.Context, accountID int64) (*entity.Account, error)

	// UpdateAvatar replaces the account's avatar URL and returns the updated
	// record.
	UpdateAvatar(ctx context.Context, accountID int64, avatarURL string) (*entity.Account, error)
}
