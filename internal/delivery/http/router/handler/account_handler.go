package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "rolodex/internal/delivery/context"
	"rolodex/internal/delivery/http/response"
	"rolodex/internal/domain/entity"
	"rolodex/internal/usecase"
)

// AccountHandler holds dependencies for the account self-service handlers.
type AccountHandler struct {
	uc usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

type updateAvatarRequest struct {
	AvatarURL string `json:"avatar_url" validate:"required,url"`
}

// mustAccount returns the account placed on the context by the auth middleware.
func mustAccount(c echo.Context) *entity.Account {
	return deliverycontext.GetAccount(c)
}

// Me returns the authenticated account's record.
func (h *AccountHandler) Me(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	current, err := h.uc.Me(c.Request().Context(), account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(current), "")
}

// UpdateAvatar replaces the authenticated account's avatar URL.
func (h *AccountHandler) UpdateAvatar(c echo.Context) error {
	account := mustAccount(c)
	if account == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	var req updateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid avatar input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.uc.UpdateAvatar(c.Request().Context(), account.ID, req.AvatarURL)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(updated), "Avatar updated")
}
