package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/repository"
	"rolodex/internal/domain/service"
	"rolodex/internal/usecase"
)

type authFixtures struct {
	accountRepo *mockAccountRepo
	hasher      *mockHasher
	tokens      *mockTokenService
	avatar      *mockAvatarProvider
	mailer      *mockMailer
	svc         usecase.AuthUsecase
}

func newAuthFixtures() *authFixtures {
	f := &authFixtures{
		accountRepo: new(mockAccountRepo),
		hasher:      new(mockHasher),
		tokens:      new(mockTokenService),
		avatar:      new(mockAvatarProvider),
		mailer:      new(mockMailer),
	}

	f.svc = NewAuthService(AuthServiceParams{
		TxManager:      newStubTxManager(f.accountRepo, nil),
		Hasher:         f.hasher,
		TokenService:   f.tokens,
		AvatarProvider: f.avatar,
		Mailer:         f.mailer,
		Logger:         newDiscardLogger(),
	})

	return f
}

func confirmedAccount(id int64, email, passwordHash string) *entity.Account {
	refreshToken := "stored-refresh"

	return &entity.Account{
		ID:           id,
		Email:        email,
		Username:     "alice",
		PasswordHash: passwordHash,
		Role:         entity.RoleUser,
		Confirmed:    true,
		RefreshToken: &refreshToken,
	}
}

func TestSignup_Success(t *testing.T) {
	f := newAuthFixtures()
	ctx := context.Background()

	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.avatar.On("ImageURLFor", "alice@example.com").Return("https://avatar.example/alice")
	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Account")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Account).ID = 7
		}).
		Return(nil)
	f.tokens.On("IssueConfirmation", "7").Return("confirm-token", nil)

	sent := make(chan struct{}, 1)
	f.mailer.On("SendConfirmation", mock.Anything, "alice@example.com", "alice", "confirm-token").
		Run(func(mock.Arguments) { sent <- struct{}{} }).
		Return(nil)

	out, err := f.svc.Signup(ctx, usecase.SignupInput{
		Username: "alice",
		Email:    "  Alice@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Account)

	assert.Equal(t, int64(7), out.Account.ID)
	assert.Equal(t, "alice@example.com", out.Account.Email)
	assert.Equal(t, entity.RoleUser, out.Account.Role)
	assert.False(t, out.Account.Confirmed)
	// The returned record never carries credentials.
	assert.Empty(t, out.Account.PasswordHash)
	assert.Nil(t, out.Account.RefreshToken)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not dispatched")
	}
}

func TestSignup_ExistingEmail(t *testing.T) {
	f := newAuthFixtures()

	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.avatar.On("ImageURLFor", "alice@example.com").Return("url")
	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(confirmedAccount(1, "alice@example.com", "hash"), nil)

	_, err := f.svc.Signup(context.Background(), usecase.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountExists)
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_ConcurrentDuplicateLosesRace(t *testing.T) {
	f := newAuthFixtures()

	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.avatar.On("ImageURLFor", "alice@example.com").Return("url")
	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("Create", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateEmail)

	_, err := f.svc.Signup(context.Background(), usecase.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountExists)
}

func TestSignup_MailFailureDoesNotFailSignup(t *testing.T) {
	f := newAuthFixtures()

	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.avatar.On("ImageURLFor", "alice@example.com").Return("url")
	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(nil, repository.ErrAccountNotFound)
	f.accountRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Account).ID = 7 }).
		Return(nil)
	f.tokens.On("IssueConfirmation", "7").Return("confirm-token", nil)

	sent := make(chan struct{}, 1)
	f.mailer.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { sent <- struct{}{} }).
		Return(assert.AnError)

	_, err := f.svc.Signup(context.Background(), usecase.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not attempted")
	}
}

func TestConfirmEmail_Success(t *testing.T) {
	f := newAuthFixtures()

	account := confirmedAccount(7, "alice@example.com", "hash")
	account.Confirmed = false

	f.tokens.On("Verify", "confirm-token", service.TokenClassConfirm).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).Return(account, nil)
	f.accountRepo.On("UpdateConfirmed", mock.Anything, int64(7), true).Return(nil)

	require.NoError(t, f.svc.ConfirmEmail(context.Background(), "confirm-token"))
	f.accountRepo.AssertExpectations(t)
}

func TestConfirmEmail_Idempotent(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "confirm-token", service.TokenClassConfirm).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)

	// Confirming an already-confirmed account succeeds without a write.
	require.NoError(t, f.svc.ConfirmEmail(context.Background(), "confirm-token"))
	f.accountRepo.AssertNotCalled(t, "UpdateConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmEmail_InvalidToken(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "bad-token", service.TokenClassConfirm).
		Return("", domainerrors.ErrTokenMalformed)

	err := f.svc.ConfirmEmail(context.Background(), "bad-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidConfirmationToken)
}

func TestConfirmEmail_WrongClassToken(t *testing.T) {
	f := newAuthFixtures()

	// An access token presented on the confirmation endpoint is invalid.
	f.tokens.On("Verify", "access-token", service.TokenClassConfirm).
		Return("", domainerrors.ErrTokenWrongClass)

	err := f.svc.ConfirmEmail(context.Background(), "access-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidConfirmationToken)
}

func TestRequestConfirmation_UnknownEmail(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrAccountNotFound)

	err := f.svc.RequestConfirmation(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestRequestConfirmation_AlreadyConfirmed(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)

	require.NoError(t, f.svc.RequestConfirmation(context.Background(), "alice@example.com"))
	f.tokens.AssertNotCalled(t, "IssueConfirmation", mock.Anything)
}

func TestRequestConfirmation_Resends(t *testing.T) {
	f := newAuthFixtures()

	account := confirmedAccount(7, "alice@example.com", "hash")
	account.Confirmed = false

	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(account, nil)
	f.tokens.On("IssueConfirmation", "7").Return("confirm-token", nil)

	sent := make(chan struct{}, 1)
	f.mailer.On("SendConfirmation", mock.Anything, "alice@example.com", "alice", "confirm-token").
		Run(func(mock.Arguments) { sent <- struct{}{} }).
		Return(nil)

	require.NoError(t, f.svc.RequestConfirmation(context.Background(), "alice@example.com"))

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not dispatched")
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)
	f.hasher.On("Check", "secret1", "hash").Return(true)
	f.tokens.On("IssueAccess", "7").Return("new-access", nil)
	f.tokens.On("IssueRefresh", "7").Return("new-refresh", nil)
	f.accountRepo.On("UpdateRefreshToken", mock.Anything, int64(7), mock.MatchedBy(func(token *string) bool {
		return token != nil && *token == "new-refresh"
	})).Return(nil)

	out, err := f.svc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "new-access", out.AccessToken)
	assert.Equal(t, "new-refresh", out.RefreshToken)
	assert.Equal(t, "bearer", out.TokenType)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrAccountNotFound)

	_, err := f.svc.Login(context.Background(), usecase.LoginInput{
		Email: "ghost@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidEmail)
}

func TestLogin_UnconfirmedBeforePasswordCheck(t *testing.T) {
	f := newAuthFixtures()

	account := confirmedAccount(7, "alice@example.com", "hash")
	account.Confirmed = false

	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(account, nil)

	// Even a correct password cannot log in before confirmation; the password
	// is not inspected at all.
	_, err := f.svc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotConfirmed)
	f.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)
	f.hasher.On("Check", "wrong", "hash").Return(false)

	_, err := f.svc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPassword)
	f.accountRepo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_RotatesStoredToken(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "stored-refresh", service.TokenClassRefresh).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)
	f.tokens.On("IssueAccess", "7").Return("rotated-access", nil)
	f.tokens.On("IssueRefresh", "7").Return("rotated-refresh", nil)
	f.accountRepo.On("UpdateRefreshToken", mock.Anything, int64(7), mock.MatchedBy(func(token *string) bool {
		return token != nil && *token == "rotated-refresh"
	})).Return(nil)

	out, err := f.svc.Refresh(context.Background(), "stored-refresh")
	require.NoError(t, err)

	assert.Equal(t, "rotated-access", out.AccessToken)
	assert.Equal(t, "rotated-refresh", out.RefreshToken)
	assert.Equal(t, "bearer", out.TokenType)
	f.accountRepo.AssertExpectations(t)
}

func TestRefresh_SupersededTokenIsRevoked(t *testing.T) {
	f := newAuthFixtures()

	// The account stores "stored-refresh"; the caller presents an older,
	// still-unexpired token from before the last rotation.
	f.tokens.On("Verify", "old-refresh", service.TokenClassRefresh).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)
	f.accountRepo.On("UpdateRefreshToken", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	_, err := f.svc.Refresh(context.Background(), "old-refresh")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenRevoked)

	// Reuse kills the whole chain: the stored token is cleared too.
	f.accountRepo.AssertCalled(t, "UpdateRefreshToken", mock.Anything, int64(7), (*string)(nil))
}

func TestRefresh_LoggedOutAccount(t *testing.T) {
	f := newAuthFixtures()

	account := confirmedAccount(7, "alice@example.com", "hash")
	account.RefreshToken = nil

	f.tokens.On("Verify", "stored-refresh", service.TokenClassRefresh).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).Return(account, nil)
	f.accountRepo.On("UpdateRefreshToken", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	_, err := f.svc.Refresh(context.Background(), "stored-refresh")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenRevoked)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "expired", service.TokenClassRefresh).
		Return("", domainerrors.ErrTokenExpired)

	_, err := f.svc.Refresh(context.Background(), "expired")
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "access-token", service.TokenClassRefresh).
		Return("", domainerrors.ErrTokenWrongClass)

	_, err := f.svc.Refresh(context.Background(), "access-token")
	assert.ErrorIs(t, err, domainerrors.ErrTokenWrongClass)
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	f := newAuthFixtures()

	f.accountRepo.On("UpdateRefreshToken", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), 7))
	f.accountRepo.AssertExpectations(t)
}

func TestResolveAccount_Success(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "access-token", service.TokenClassAccess).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)

	account, err := f.svc.ResolveAccount(context.Background(), "access-token")
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
}

func TestResolveAccount_DeletedAccount(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "access-token", service.TokenClassAccess).Return("7", nil)
	f.accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(nil, repository.ErrAccountNotFound)

	_, err := f.svc.ResolveAccount(context.Background(), "access-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestResolveAccount_RefreshTokenRejected(t *testing.T) {
	f := newAuthFixtures()

	f.tokens.On("Verify", "refresh-token", service.TokenClassAccess).
		Return("", domainerrors.ErrTokenWrongClass)

	_, err := f.svc.ResolveAccount(context.Background(), "refresh-token")
	assert.ErrorIs(t, err, domainerrors.ErrTokenWrongClass)
}
