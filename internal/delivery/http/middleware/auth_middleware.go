package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "rolodex/internal/delivery/context"
	"rolodex/internal/domain/entity"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/usecase"
)

// AuthMiddleware authenticates requests with bearer access tokens and attaches
// the resolved account to the request context.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the access token and loads the live account record.
// Tokens of any other class are rejected here, before any handler runs.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return errors.WithStack(err)
		}

		account, err := m.authUsecase.ResolveAccount(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetAccount(c, account)

		return next(c)
	}
}

// RequireRoles is a middleware factory that checks the authenticated account's
// role against the requirement. It must run after Authenticate.
func (m *AuthMiddleware) RequireRoles(requirement entity.RoleRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := deliverycontext.GetAccount(c)
			if account == nil {
				return domainerrors.ErrUnauthenticated.WrapMessage("no account on request")
			}

			if !requirement.Allows(account.Role) {
				return domainerrors.ErrForbidden.WrapMessage("role check failed")
			}

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", domainerrors.ErrUnauthenticated.WrapMessage("authorization header is missing")
	}

	// The scheme comparison is case-insensitive per RFC 7235.
	const prefix = "bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", domainerrors.ErrUnauthenticated.WrapMessage("authorization header is not a bearer token")
	}

	return strings.TrimSpace(authHeader[len(prefix):]), nil
}
