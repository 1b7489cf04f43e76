package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// refillScript refills the bucket from the redis clock, takes one token when
// available and returns {allowed, tokens}. Tokens go out as a string since
// lua numbers are truncated to integers in replies.
var refillScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local clock = redis.call("TIME")
local now = clock[1] * 1000 + math.floor(clock[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local last = tonumber(state[2])

if tokens == nil then
  tokens = burst
else
  local elapsed = math.max(0, now - last)
  tokens = math.min(burst, tokens + elapsed / 1000 * rate)
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`)

var (
	ErrBucketNotConfigured = errors.New("rate_limiter_not_configured")
	ErrEmptyBucketKey      = errors.New("rate_limiter_empty_key")
	ErrInvalidBucketReply  = errors.New("rate_limiter_invalid_reply")
)

type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// TokenBucket is a redis-backed bucket refilling rate tokens per second up
// to burst. One bucket instance serves every key with the same shape.
type TokenBucket struct {
	client redis.Scripter
	rate   float64
	burst  int
	ttl    time.Duration
}

func NewTokenBucket(client redis.Scripter, rate float64, burst int) (*TokenBucket, error) {
	if client == nil {
		return nil, ErrBucketNotConfigured
	}
	if rate <= 0 || burst <= 0 {
		return nil, fmt.Errorf("token bucket rate %v and burst %d must be positive", rate, burst)
	}
	return &TokenBucket{
		client: client,
		rate:   rate,
		burst:  burst,
		ttl:    bucketTTL(rate, burst),
	}, nil
}

// Take spends one token from key's bucket.
func (b *TokenBucket) Take(ctx context.Context, key string) (*RateLimitResult, error) {
	if b == nil || b.client == nil {
		return nil, ErrBucketNotConfigured
	}
	if key == "" {
		return nil, ErrEmptyBucketKey
	}

	reply, err := refillScript.Run(ctx, b.client, []string{key}, b.rate, b.burst, b.ttl.Milliseconds()).Slice()
	if err != nil {
		return nil, err
	}
	allowed, tokens, err := parseReply(reply)
	if err != nil {
		return nil, err
	}
	return b.result(allowed, tokens), nil
}

// result derives Retry-After from the tokens left after the attempt.
func (b *TokenBucket) result(allowed bool, tokens float64) *RateLimitResult {
	res := &RateLimitResult{
		Allowed:   allowed,
		Limit:     b.burst,
		Remaining: int(math.Floor(tokens)),
	}
	if !allowed && tokens < 1 {
		res.RetryAfter = time.Duration((1 - tokens) / b.rate * float64(time.Second))
	}
	return res
}

func parseReply(reply []interface{}) (bool, float64, error) {
	if len(reply) < 2 {
		return false, 0, ErrInvalidBucketReply
	}
	flag, ok := reply[0].(int64)
	if !ok {
		return false, 0, ErrInvalidBucketReply
	}
	raw, ok := reply[1].(string)
	if !ok {
		return false, 0, ErrInvalidBucketReply
	}
	tokens, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrInvalidBucketReply, err)
	}
	return flag == 1, tokens, nil
}

// bucketTTL keeps idle buckets around for twice their full refill time.
func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}
