package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pizzaria/internal/config"
)

const keyOrderCreateClient = "orders:create:client:%s"

// OrderLimiter throttles checkout submissions per client address.
type OrderLimiter struct {
	enabled bool
	bucket  *TokenBucket
}

// NewOrderLimiter returns nil when limiting is disabled or redis is absent.
func NewOrderLimiter(cfg config.Config, client *redis.Client) (*OrderLimiter, error) {
	if !cfg.RateLimit.Enabled || client == nil {
		return nil, nil
	}
	bucket, err := NewTokenBucket(client, cfg.RateLimit.OrderRate, cfg.RateLimit.OrderBurst)
	if err != nil {
		return nil, fmt.Errorf("order rate limit: %w", err)
	}
	return &OrderLimiter{enabled: true, bucket: bucket}, nil
}

func (l *OrderLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *OrderLimiter) Allow(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Take(ctx, fmt.Sprintf(keyOrderCreateClient, strings.TrimSpace(clientKey)))
}
