package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coursin/marketing-api/internal/core/ratelimit"
)

// RateLimitStore is a fixed-window limiter backed by Redis, for deployments
// running more than one instance behind a load balancer. Semantics match the
// in-memory limiter: INCR is atomic per key, the window TTL is set on the
// first hit, and the counter vanishes with the key when the window expires.
//
// Key format: ratelimit:<client_key>
type RateLimitStore struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimitStore creates a RateLimitStore wrapping the given Redis client.
func NewRateLimitStore(client *redis.Client, limit int, window time.Duration) *RateLimitStore {
	if limit <= 0 {
		limit = ratelimit.DefaultLimit
	}
	if window <= 0 {
		window = ratelimit.DefaultWindow
	}
	return &RateLimitStore{client: client, limit: limit, window: window}
}

// Admit increments the key's window counter and reports whether the event
// is allowed.
func (s *RateLimitStore) Admit(ctx context.Context, key string) (ratelimit.Result, error) {
	k := s.key(key)

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return ratelimit.Result{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			return ratelimit.Result{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	reset, err := s.resetAfter(ctx, k)
	if err != nil {
		return ratelimit.Result{}, err
	}

	return ratelimit.Result{
		Allowed:    count <= int64(s.limit),
		Remaining:  remaining(s.limit, int(count)),
		ResetAfter: reset,
	}, nil
}

// Status reads the key's window without counting as an admission attempt.
func (s *RateLimitStore) Status(ctx context.Context, key string) (ratelimit.Status, error) {
	k := s.key(key)

	count, err := s.client.Get(ctx, k).Int()
	if err == redis.Nil {
		return ratelimit.Status{Remaining: s.limit, Limit: s.limit}, nil
	}
	if err != nil {
		return ratelimit.Status{}, fmt.Errorf("rate limit get: %w", err)
	}

	reset, err := s.resetAfter(ctx, k)
	if err != nil {
		return ratelimit.Status{}, err
	}

	rem := remaining(s.limit, count)
	return ratelimit.Status{
		Remaining:  rem,
		Limit:      s.limit,
		ResetAfter: reset,
		IsLimited:  rem == 0,
	}, nil
}

func (s *RateLimitStore) resetAfter(ctx context.Context, k string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit pttl: %w", err)
	}
	if ttl < 0 {
		// Key exists without an expiry (lost between INCR and EXPIRE);
		// repair it so the window still rolls over.
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			return 0, fmt.Errorf("rate limit expire: %w", err)
		}
		return s.window, nil
	}
	return ttl, nil
}

func (s *RateLimitStore) key(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}

func remaining(limit, count int) int {
	if count >= limit {
		return 0
	}
	return limit - count
}
