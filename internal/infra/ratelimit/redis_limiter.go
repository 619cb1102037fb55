// Package ratelimit implements the shared request gate on top of Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"rolodex/config"
	"rolodex/internal/domain/lifecycle"
	"rolodex/internal/domain/service"
)

// redisLimiter counts requests per (route, client) in fixed windows using a
// single INCR + PEXPIRE pair. The count is approximate across window
// boundaries, which keeps bookkeeping O(1) per request.
type redisLimiter struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Redis-backed rate limiter and registers lifecycle hooks for
// the connection.
func New(params Params) (service.RateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     params.Config.Redis.Addr,
		Password: params.Config.Redis.Password,
		DB:       params.Config.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return &redisLimiter{
		client:  client,
		timeout: params.Config.RateLimit.Timeout,
	}, nil
}

// NewWithClient builds a limiter around an existing client. Used by tests.
func NewWithClient(client redis.UniversalClient, timeout time.Duration) service.RateLimiter {
	return &redisLimiter{client: client, timeout: timeout}
}

// Allow increments the counter for the current window and compares it with the
// limit. The call carries its own bounded timeout: the gate is the only network
// hop on the hot path besides the store itself.
func (l *redisLimiter) Allow(ctx context.Context, routeKey, clientKey string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	key := windowKey(routeKey, clientKey, window)

	count, err := l.client.Incr(callCtx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to increment rate-limit counter")
	}

	// First hit in the window owns the expiry.
	if count == 1 {
		if err := l.client.PExpire(callCtx, key, window).Err(); err != nil {
			return false, errors.Wrap(err, "failed to expire rate-limit counter")
		}
	}

	return count <= int64(limit), nil
}

// windowKey buckets time into fixed windows so all instances agree on the
// counter without coordination.
func windowKey(routeKey, clientKey string, window time.Duration) string {
	bucket := time.Now().UnixMilli() / window.Milliseconds()

	return fmt.Sprintf("ratelimit:%s:%s:%d", routeKey, clientKey, bucket)
}
