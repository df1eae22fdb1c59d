package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// SlidingWindowLimiter implements ports.RateLimiter with a Redis sorted set
// per key: one member per attempt, scored by nanosecond timestamp. Expired
// members are trimmed on every call, so the window truly slides instead of
// resetting on fixed boundaries. Keys expire one window after the last
// attempt.
//
// Key format: ratelimit:<caller-supplied key>
type SlidingWindowLimiter struct {
	client *redis.Client
}

// NewSlidingWindowLimiter wraps the given Redis client.
func NewSlidingWindowLimiter(client *redis.Client) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{client: client}
}

// Allow checks the window and records the attempt only when it is
// admitted. Denied attempts leave the window untouched: a client hammering
// a saturated window must not keep extending its own lockout.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*ports.RateLimitResult, error) {
	now := time.Now()
	rkey := l.key(key)

	var card *redis.IntCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, rkey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
		card = pipe.ZCard(ctx, rkey)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit allow: %w", err)
	}

	if int(card.Val()) >= limit {
		return l.result(ctx, rkey, int(card.Val())+1, limit, window, now)
	}

	_, err = l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, rkey, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: uuid.NewString(),
		})
		pipe.PExpire(ctx, rkey, window)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit allow: %w", err)
	}

	return l.result(ctx, rkey, int(card.Val())+1, limit, window, now)
}

// Check inspects the window without recording an attempt.
func (l *SlidingWindowLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*ports.RateLimitResult, error) {
	now := time.Now()
	rkey := l.key(key)

	var card *redis.IntCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, rkey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
		card = pipe.ZCard(ctx, rkey)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	// Check precedes the attempt, so the limit is crossed at count == limit.
	return l.result(ctx, rkey, int(card.Val())+1, limit, window, now)
}

// Record adds an attempt without checking the limit.
func (l *SlidingWindowLimiter) Record(ctx context.Context, key string, window time.Duration) error {
	now := time.Now()
	rkey := l.key(key)

	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, rkey, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: uuid.NewString(),
		})
		pipe.PExpire(ctx, rkey, window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rate limit record: %w", err)
	}
	return nil
}

// result builds the outcome; on denial it derives retry-after from the
// oldest attempt still inside the window.
func (l *SlidingWindowLimiter) result(ctx context.Context, rkey string, count, limit int, window time.Duration, now time.Time) (*ports.RateLimitResult, error) {
	if count <= limit {
		return &ports.RateLimitResult{Allowed: true, Remaining: limit - count}, nil
	}

	retryAfter := window
	oldest, err := l.client.ZRangeWithScores(ctx, rkey, 0, 0).Result()
	if err == nil && len(oldest) > 0 {
		expiresAt := time.Unix(0, int64(oldest[0].Score)).Add(window)
		if d := expiresAt.Sub(now); d > 0 && d < window {
			retryAfter = d
		}
	}

	return &ports.RateLimitResult{Allowed: false, RetryAfter: retryAfter}, nil
}

func (l *SlidingWindowLimiter) key(key string) string {
	return "ratelimit:" + key
}
