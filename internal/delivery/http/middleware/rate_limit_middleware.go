package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"rolodex/config"
	deliverycontext "rolodex/internal/delivery/context"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/service"
)

// RateLimitMiddleware gates every route through the shared request limiter.
// The counting key is (route template, client IP), so one noisy client cannot
// starve a route for everyone else.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	cfg     *config.RateLimitConfig
	logger  *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limiting middleware
func NewRateLimitMiddleware(limiter service.RateLimiter, cfg *config.Config, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		cfg:     cfg.RateLimit,
		logger:  logger,
	}
}

// Handle enforces the configured per-window request limit. When the limiter
// itself fails, the failure mode decides: fail-closed denies the request,
// fail-open lets it through with a warning.
func (m *RateLimitMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.cfg == nil || !m.cfg.Enabled {
			return next(c)
		}

		ctx := c.Request().Context()
		routeKey := c.Path()
		clientKey := c.RealIP()

		allowed, err := m.limiter.Allow(ctx, routeKey, clientKey, m.cfg.Limit, m.cfg.Window)
		if err != nil {
			logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger)
			logger.Warn("Rate limiter unavailable",
				slog.String("route", routeKey),
				slog.String("failureMode", string(m.cfg.FailureMode)),
				slog.Any("error", err),
			)

			if m.cfg.FailureMode == config.FailOpen {
				return next(c)
			}

			return domainerrors.ErrStoreUnavailable.WrapMessage("rate limiter unavailable")
		}

		if !allowed {
			return errors.WithStack(domainerrors.ErrRateLimited)
		}

		return next(c)
	}
}
