package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/config"
)

const resetWindowPrefix = "accounts:pwreset:"

// Redis wraps the go-redis client. Beyond the readiness probe it backs the
// forgot-password throttle, so one address cannot have its password rotated
// in a tight loop by repeated reset requests.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// AcquireResetWindow claims the password-reset slot for an email address.
// It returns false while a previous claim is still inside its ttl. With no
// client configured every claim succeeds, so the throttle degrades to open
// rather than blocking resets.
func (r *Redis) AcquireResetWindow(ctx context.Context, email string, ttl time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		return true, nil
	}
	return r.Client.SetNX(ctx, resetWindowPrefix+email, 1, ttl).Result()
}
