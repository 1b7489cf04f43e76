package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
)

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was retaken elsewhere is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultLockWait  = 5 * time.Second
	lockRetryBackoff = 50 * time.Millisecond
)

var (
	ErrLockNotConfigured = errors.New("lock_not_configured")
	ErrInvalidLock       = errors.New("invalid_lock")
)

// Locker hands out SET NX leases keyed by a random token.
type Locker struct {
	client redis.Cmdable
}

func NewLocker(client redis.Cmdable) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{client: client}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	switch {
	case l == nil || l.client == nil:
		return "", false, ErrLockNotConfigured
	case key == "" || ttl <= 0:
		return "", false, fmt.Errorf("%w: key %q ttl %s", ErrInvalidLock, key, ttl)
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil || key == "" || token == "" {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

type tryLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// CollectionLocker makes the API and scheduler processes take turns on a
// collection file. It polls until the lock is free or maxWait elapses.
type CollectionLocker struct {
	locks   tryLocker
	ttl     time.Duration
	maxWait time.Duration
	backoff time.Duration
}

// NewCollectionLocker returns nil without redis so the store falls back to
// in-process locking.
func NewCollectionLocker(cfg config.Config, client *redis.Client) *CollectionLocker {
	if client == nil {
		return nil
	}
	ttl := time.Duration(cfg.Redis.LockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return newCollectionLocker(NewLocker(client), ttl, defaultLockWait)
}

func newCollectionLocker(locks tryLocker, ttl, maxWait time.Duration) *CollectionLocker {
	return &CollectionLocker{
		locks:   locks,
		ttl:     ttl,
		maxWait: maxWait,
		backoff: lockRetryBackoff,
	}
}

// Acquire implements jsonstore.Locker.
func (c *CollectionLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	deadline := time.Now().Add(c.maxWait)
	for {
		token, ok, err := c.locks.TryLock(ctx, key, c.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func(ctx context.Context) error {
				return c.locks.Release(ctx, key, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s held by another process", jsonstore.ErrLocked, key)
		}

		timer := time.NewTimer(c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

var _ jsonstore.Locker = (*CollectionLocker)(nil)
