package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "rolodex/internal/delivery/context"
	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/repository"
	"rolodex/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Me returns the account's current record.
func (srv *accountService) Me(ctx context.Context, accountID int64) (*entity.Account, error) {
	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.AccountRepo().FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("account lookup failed")
			}

			return errors.Wrap(err, "failed to find account")
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute account lookup transaction")
	}

	return account.Sanitized(), nil
}

// UpdateAvatar replaces the account's avatar URL and returns the updated record.
func (srv *accountService) UpdateAvatar(ctx context.Context, accountID int64, avatarURL string) (*entity.Account, error) {
	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := accountRepo.UpdateAvatar(ctx, accountID, avatarURL); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("avatar update failed")
			}

			return errors.Wrap(err, "failed to update avatar")
		}

		found, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return errors.Wrap(err, "failed to reload account after avatar update")
		}
		account = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Avatar update failed", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute avatar update transaction")
	}

	srv.log(ctx).Info("Avatar updated", slog.Int64("accountID", accountID))

	return account.Sanitized(), nil
}
