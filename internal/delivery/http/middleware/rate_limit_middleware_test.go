package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodex/config"
	domainerrors "rolodex/internal/domain/errors"
)

// fakeLimiter scripts the limiter verdict for one test.
type fakeLimiter struct {
	allowed bool
	err     error

	routeKey  string
	clientKey string
}

func (f *fakeLimiter) Allow(_ context.Context, routeKey, clientKey string, _ int, _ time.Duration) (bool, error) {
	f.routeKey = routeKey
	f.clientKey = clientKey

	return f.allowed, f.err
}

func newRateLimitConfig(mode config.RateLimitFailureMode) *config.Config {
	return &config.Config{
		RateLimit: &config.RateLimitConfig{
			Enabled:     true,
			Limit:       2,
			Window:      5 * time.Second,
			FailureMode: mode,
		},
	}
}

func newRateLimitTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/contacts")

	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	m := NewRateLimitMiddleware(limiter, newRateLimitConfig(config.FailClosed), discardLogger())

	var called bool
	err := m.Handle(nextRecorder(&called))(newRateLimitTestContext())

	require.NoError(t, err)
	assert.True(t, called)
	// The counting key is the route template, not the raw URL.
	assert.Equal(t, "/contacts", limiter.routeKey)
	assert.NotEmpty(t, limiter.clientKey)
}

func TestRateLimit_DeniesOverLimit(t *testing.T) {
	m := NewRateLimitMiddleware(&fakeLimiter{allowed: false}, newRateLimitConfig(config.FailClosed), discardLogger())

	var called bool
	err := m.Handle(nextRecorder(&called))(newRateLimitTestContext())

	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)
	assert.False(t, called)
}

func TestRateLimit_FailClosedOnLimiterError(t *testing.T) {
	m := NewRateLimitMiddleware(&fakeLimiter{err: assert.AnError}, newRateLimitConfig(config.FailClosed), discardLogger())

	var called bool
	err := m.Handle(nextRecorder(&called))(newRateLimitTestContext())

	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
	assert.False(t, called)
}

func TestRateLimit_FailOpenOnLimiterError(t *testing.T) {
	m := NewRateLimitMiddleware(&fakeLimiter{err: assert.AnError}, newRateLimitConfig(config.FailOpen), discardLogger())

	var called bool
	err := m.Handle(nextRecorder(&called))(newRateLimitTestContext())

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRateLimit_DisabledSkipsLimiter(t *testing.T) {
	cfg := newRateLimitConfig(config.FailClosed)
	cfg.RateLimit.Enabled = false

	limiter := &fakeLimiter{allowed: false}
	m := NewRateLimitMiddleware(limiter, cfg, discardLogger())

	var called bool
	err := m.Handle(nextRecorder(&called))(newRateLimitTestContext())

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, limiter.routeKey)
}
