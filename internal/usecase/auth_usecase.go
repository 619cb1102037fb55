// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"rolodex/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to create a new account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SignupOutput returns the newly created account's public information.
type SignupOutput struct {
	Account *entity.Account
}

// TokenPairOutput returns the issued token pair. TokenType is always "bearer".
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// AuthUsecase defines the account lifecycle operations.
// This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Signup registers a new, unconfirmed account and dispatches a
	// confirmation email. Email dispatch failures never fail the signup.
	Signup(ctx context.Context, input SignupInput) (*SignupOutput, error)

	// ConfirmEmail marks the account referenced by the confirmation token as
	// confirmed. Confirming an already-confirmed account is a no-op.
	ConfirmEmail(ctx context.Context, token string) error

	// RequestConfirmation re-sends the confirmation email for an existing,
	// unconfirmed account.
	RequestConfirmation(ctx context.Context, email string) error

	// Login verifies credentials and issues a fresh token pair.
	Login(ctx context.Context, input LoginInput) (*TokenPairOutput, error)

	// Refresh exchanges a valid refresh token for a new pair, rotating the
	// stored token. The superseded refresh token stops working immediately.
	Refresh(ctx context.Context, refreshToken string) (*TokenPairOutput, error)

	// Logout invalidates the account's stored refresh token.
	Logout(ctx context.Context, accountID int64) error

	// ResolveAccount maps a raw access token to the live account record.
	ResolveAccount(ctx context.Context, accessToken string) (*entity.Account, error)
}
