// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"rolodex/internal/delivery/http/response"
	"rolodex/internal/domain/entity"
	"rolodex/internal/usecase"
)

// AuthHandler holds dependencies for the account-lifecycle handlers.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type requestConfirmationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Confirmed bool      `json:"confirmed"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(account *entity.Account) accountResponse {
	resp := accountResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      account.Role.String(),
		Confirmed: account.Confirmed,
		CreatedAt: account.CreatedAt,
	}
	if account.AvatarURL != nil {
		resp.AvatarURL = *account.AvatarURL
	}

	return resp
}

func toTokenPairResponse(pair *usecase.TokenPairOutput) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

// Signup handles new account registration.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Signup(c.Request().Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountResponse(output.Account),
		"Account created, check your email for the confirmation link")
}

// ConfirmEmail handles the confirmation link from the email.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Confirmation token is missing")
	}

	if err := h.uc.ConfirmEmail(c.Request().Context(), token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email confirmed")
}

// RequestConfirmation re-sends the confirmation email.
func (h *AuthHandler) RequestConfirmation(c echo.Context) error {
	var req requestConfirmationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid confirmation request input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.RequestConfirmation(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Check your email for the confirmation link")
}

// Login handles credential verification and token issuance.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	pair, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTokenPairResponse(pair), "Login successful")
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	pair, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTokenPairResponse(pair), "Token refreshed")
}

// Logout invalidates the authenticated account's refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	if err := h.uc.Logout(c.Request().Context(), account.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out")
}
