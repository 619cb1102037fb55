package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"rolodex/internal/delivery/http/response"
	domainerrors "rolodex/internal/domain/errors"
)

// HealthHandler reports service liveness including database reachability.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database so load balancers stop routing to an instance that
// lost its store.
func (h *HealthHandler) Check(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return domainerrors.ErrStoreUnavailable.WrapMessage("health check failed")
	}

	if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		return domainerrors.ErrStoreUnavailable.WrapMessage("health check failed")
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
