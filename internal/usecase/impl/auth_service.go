// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "rolodex/internal/delivery/context"
	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/lifecycle"
	"rolodex/internal/domain/repository"
	"rolodex/internal/domain/service"
	"rolodex/internal/usecase"
)

// authService implements the AuthUsecase interface. It owns the full account
// lifecycle: signup, confirmation, login, refresh rotation and logout.
type authService struct {
	txManager      repository.TransactionManager
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	avatarProvider service.AvatarProvider
	mailer         service.Mailer
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	AvatarProvider service.AvatarProvider
	Mailer         service.Mailer
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:      params.TxManager,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		avatarProvider: params.AvatarProvider,
		mailer:         params.Mailer,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new, unconfirmed account and dispatches a confirmation
// email. The dispatch runs in the background; its failure never fails signup.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.SignupOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting signup", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	avatarURL := srv.avatarProvider.ImageURLFor(email)

	var createdAccount *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, err := accountRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrAccountExists.WrapMessage("signup failed")
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to check for existing account")
		}

		newAccount := &entity.Account{
			Email:        email,
			Username:     input.Username,
			PasswordHash: hashedPassword,
			Role:         entity.RoleUser,
			Confirmed:    false,
			AvatarURL:    &avatarURL,
		}

		if err := accountRepo.Create(ctx, newAccount); err != nil {
			// A concurrent signup with the same email can slip past the
			// pre-check; the unique index decides the winner.
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrAccountExists.WrapMessage("signup failed")
			}

			return errors.Wrap(err, "failed to create account")
		}
		createdAccount = newAccount

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	srv.dispatchConfirmation(ctx, createdAccount)
	srv.log(ctx).Debug("Signup completed", slog.Int64("accountID", createdAccount.ID))

	return &usecase.SignupOutput{Account: createdAccount.Sanitized()}, nil
}

// dispatchConfirmation issues a confirmation token and sends it in a detached
// goroutine so mail latency never blocks the request.
func (srv *authService) dispatchConfirmation(ctx context.Context, account *entity.Account) {
	logger := srv.log(ctx)

	token, err := srv.tokenService.IssueConfirmation(formatSubject(account.ID))
	if err != nil {
		logger.Error("Failed to issue confirmation token", slog.Int64("accountID", account.ID), slog.Any("error", err))

		return
	}

	email, username := account.Email, account.Username
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		if err := srv.mailer.SendConfirmation(sendCtx, email, username, token); err != nil {
			logger.Warn("Failed to send confirmation email", slog.String("email", email), slog.Any("error", err))
		}
	}()
}

// ConfirmEmail marks the account referenced by the token as confirmed.
// Confirming twice is a no-op.
func (srv *authService) ConfirmEmail(ctx context.Context, token string) error {
	subject, err := srv.tokenService.Verify(token, service.TokenClassConfirm)
	if err != nil {
		srv.log(ctx).Warn("Email confirmation with invalid token", slog.Any("error", err))

		return domainerrors.ErrInvalidConfirmationToken.WrapMessage("email confirmation failed")
	}

	accountID, err := parseSubject(subject)
	if err != nil {
		return domainerrors.ErrInvalidConfirmationToken.WrapMessage("email confirmation failed")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrInvalidConfirmationToken.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to find account for confirmation")
		}

		if account.Confirmed {
			return nil
		}

		return errors.Wrap(accountRepo.UpdateConfirmed(ctx, accountID, true), "failed to mark account confirmed")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute email confirmation transaction")
	}

	srv.log(ctx).Info("Email confirmed", slog.Int64("accountID", accountID))

	return nil
}

// RequestConfirmation re-sends the confirmation email for an unconfirmed
// account. Requesting it for a confirmed account is a no-op.
func (srv *authService) RequestConfirmation(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.AccountRepo().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("confirmation request failed")
			}

			return errors.Wrap(err, "failed to find account for confirmation request")
		}
		account = found

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute confirmation request transaction")
	}

	if account.Confirmed {
		srv.log(ctx).Debug("Confirmation requested for already confirmed account", slog.Int64("accountID", account.ID))

		return nil
	}

	srv.dispatchConfirmation(ctx, account)

	return nil
}

// Login verifies credentials and issues a fresh token pair. Unconfirmed
// accounts are rejected before the password is checked.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	var pair *usecase.TokenPairOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrInvalidEmail.WrapMessage("login failed")
			}

			return errors.Wrap(err, "failed to find account for login")
		}

		if !account.Confirmed {
			return domainerrors.ErrEmailNotConfirmed.WrapMessage("login failed")
		}

		if !srv.hasher.Check(input.Password, account.PasswordHash) {
			return domainerrors.ErrInvalidPassword.WrapMessage("login failed")
		}

		pair, err = srv.issueAndStorePair(ctx, accountRepo, account.ID)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The stored token is
// rotated; presenting a superseded token revokes the session outright.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPairOutput, error) {
	subject, err := srv.tokenService.Verify(refreshToken, service.TokenClassRefresh)
	if err != nil {
		srv.log(ctx).Warn("Refresh with invalid token", slog.Any("error", err))

		return nil, errors.Wrap(err, "refresh token verification failed")
	}

	accountID, err := parseSubject(subject)
	if err != nil {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("refresh failed")
	}

	var pair *usecase.TokenPairOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrRefreshTokenRevoked.WrapMessage("refresh failed")
			}

			return errors.Wrap(err, "failed to find account for refresh")
		}

		// A verified token that no longer matches the stored value was
		// superseded by a later login or refresh. Clear the stored token so
		// the whole session chain dies, then reject.
		if account.RefreshToken == nil || *account.RefreshToken != refreshToken {
			if err := accountRepo.UpdateRefreshToken(ctx, accountID, nil); err != nil {
				return errors.Wrap(err, "failed to revoke refresh token chain")
			}

			return domainerrors.ErrRefreshTokenRevoked.WrapMessage("refresh failed")
		}

		pair, err = srv.issueAndStorePair(ctx, accountRepo, accountID)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.Int64("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh transaction")
	}

	return pair, nil
}

// Logout invalidates the account's stored refresh token.
func (srv *authService) Logout(ctx context.Context, accountID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(
			repoFactory.AccountRepo().UpdateRefreshToken(ctx, accountID, nil),
			"failed to clear refresh token",
		)
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute logout transaction")
	}

	srv.log(ctx).Info("Logged out", slog.Int64("accountID", accountID))

	return nil
}

// ResolveAccount maps a raw access token to the live account record. Every
// failure collapses to ErrUnauthenticated so the middleware leaks nothing
// about why a token was rejected beyond the attached cause.
func (srv *authService) ResolveAccount(ctx context.Context, accessToken string) (*entity.Account, error) {
	subject, err := srv.tokenService.Verify(accessToken, service.TokenClassAccess)
	if err != nil {
		return nil, errors.Wrap(err, "access token verification failed")
	}

	accountID, err := parseSubject(subject)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("access token carries an invalid subject")
	}

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.AccountRepo().FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrUnauthenticated.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to load account for access token")
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve account")
	}

	return account, nil
}

// issueAndStorePair generates a fresh token pair and persists the refresh half
// on the account row, superseding whatever was stored before.
func (srv *authService) issueAndStorePair(ctx context.Context, accountRepo repository.AccountRepository, accountID int64) (*usecase.TokenPairOutput, error) {
	subject := formatSubject(accountID)

	accessToken, err := srv.tokenService.IssueAccess(subject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.tokenService.IssueRefresh(subject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	if err := accountRepo.UpdateRefreshToken(ctx, accountID, &refreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    service.TokenScheme,
	}, nil
}

func formatSubject(accountID int64) string {
	return strconv.FormatInt(accountID, 10)
}

func parseSubject(subject string) (int64, error) {
	return strconv.ParseInt(subject, 10, 64)
}
