package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/repository"
	"rolodex/internal/usecase"
)

func newAccountService(accountRepo *mockAccountRepo) usecase.AccountUsecase {
	return NewAccountService(AccountServiceParams{
		TxManager: newStubTxManager(accountRepo, nil),
		Logger:    newDiscardLogger(),
	})
}

func TestAccountMe_SanitizesRecord(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	svc := newAccountService(accountRepo)

	accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(confirmedAccount(7, "alice@example.com", "hash"), nil)

	account, err := svc.Me(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", account.Email)
	assert.Empty(t, account.PasswordHash)
	assert.Nil(t, account.RefreshToken)
}

func TestAccountMe_NotFound(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	svc := newAccountService(accountRepo)

	accountRepo.On("FindByID", mock.Anything, int64(7)).
		Return(nil, repository.ErrAccountNotFound)

	_, err := svc.Me(context.Background(), 7)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountUpdateAvatar(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	svc := newAccountService(accountRepo)

	updated := confirmedAccount(7, "alice@example.com", "hash")
	newURL := "https://cdn.example.com/alice.png"
	updated.AvatarURL = &newURL

	accountRepo.On("UpdateAvatar", mock.Anything, int64(7), newURL).Return(nil)
	accountRepo.On("FindByID", mock.Anything, int64(7)).Return(updated, nil)

	account, err := svc.UpdateAvatar(context.Background(), 7, newURL)
	require.NoError(t, err)

	require.NotNil(t, account.AvatarURL)
	assert.Equal(t, newURL, *account.AvatarURL)
	assert.Empty(t, account.PasswordHash)
}

func TestAccountUpdateAvatar_NotFound(t *testing.T) {
	accountRepo := new(mockAccountRepo)
	svc := newAccountService(accountRepo)

	accountRepo.On("UpdateAvatar", mock.Anything, int64(7), "url").
		Return(repository.ErrAccountNotFound)

	_, err := svc.UpdateAvatar(context.Background(), 7, "url")
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}
