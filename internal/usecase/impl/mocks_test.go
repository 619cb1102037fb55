package impl

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"rolodex/internal/domain/entity"
	"rolodex/internal/domain/repository"
	"rolodex/internal/domain/service"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTxManager runs the callback directly against a fixed factory. The tests
// assert business behavior, not transaction plumbing.
type stubTxManager struct {
	factory *stubRepoFactory
}

func newStubTxManager(accountRepo repository.AccountRepository, contactRepo repository.ContactRepository) *stubTxManager {
	return &stubTxManager{factory: &stubRepoFactory{accountRepo: accountRepo, contactRepo: contactRepo}}
}

func (m *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type stubRepoFactory struct {
	accountRepo repository.AccountRepository
	contactRepo repository.ContactRepository
}

func (f *stubRepoFactory) AccountRepo() repository.AccountRepository { return f.accountRepo }
func (f *stubRepoFactory) ContactRepo() repository.ContactRepository { return f.contactRepo }

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) UpdateRefreshToken(ctx context.Context, id int64, token *string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *mockAccountRepo) UpdateConfirmed(ctx context.Context, id int64, confirmed bool) error {
	return m.Called(ctx, id, confirmed).Error(0)
}

func (m *mockAccountRepo) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	return m.Called(ctx, id, avatarURL).Error(0)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) List(ctx context.Context, accountID int64, limit, offset int) ([]*entity.Contact, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if contacts, ok := args.Get(0).([]*entity.Contact); ok {
		return contacts, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockContactRepo) FindByID(ctx context.Context, accountID, contactID int64) (*entity.Contact, error) {
	args := m.Called(ctx, accountID, contactID)
	if contact, ok := args.Get(0).(*entity.Contact); ok {
		return contact, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockContactRepo) Create(ctx context.Context, contact *entity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockContactRepo) Update(ctx context.Context, contact *entity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockContactRepo) Delete(ctx context.Context, accountID, contactID int64) error {
	return m.Called(ctx, accountID, contactID).Error(0)
}

func (m *mockContactRepo) Search(ctx context.Context, accountID int64, filter repository.ContactFilter) ([]*entity.Contact, error) {
	args := m.Called(ctx, accountID, filter)
	if contacts, ok := args.Get(0).([]*entity.Contact); ok {
		return contacts, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockContactRepo) FindByBirthdayKeys(ctx context.Context, accountID int64, keys []string) ([]*entity.Contact, error) {
	args := m.Called(ctx, accountID, keys)
	if contacts, ok := args.Get(0).([]*entity.Contact); ok {
		return contacts, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) IssueAccess(subject string) (string, error) {
	args := m.Called(subject)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) IssueRefresh(subject string) (string, error) {
	args := m.Called(subject)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) IssueConfirmation(subject string) (string, error) {
	args := m.Called(subject)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) Verify(token string, expected service.TokenClass) (string, error) {
	args := m.Called(token, expected)

	return args.String(0), args.Error(1)
}

type mockAvatarProvider struct {
	mock.Mock
}

func (m *mockAvatarProvider) ImageURLFor(email string) string {
	return m.Called(email).String(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendConfirmation(ctx context.Context, email, username, token string) error {
	return m.Called(ctx, email, username, token).Error(0)
}
