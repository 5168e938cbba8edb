package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript decrements the counter and drops it once nothing is left, so
// a release never leaves a negative or expiry-less key behind.
var releaseScript = redis.NewScript(`
local n = redis.call('DECR', KEYS[1])
if n <= 0 then
	redis.call('DEL', KEYS[1])
	return 0
end
return n
`)

// AttemptLimiter counts login attempts per username in Redis. Acquire
// increments first and decides from the new value, so concurrent attempts
// can never get past maxAttempts. Each attempt pushes the expiry of the
// counter window further out.
// Key format: login_attempts:<username>
type AttemptLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewAttemptLimiter returns a limiter. maxAttempts <= 0 disables blocking.
func NewAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (l *AttemptLimiter) enabled() bool {
	return l.maxAttempts > 0 && l.client != nil
}

// Acquire counts one attempt for username and reports whether it is still
// within maxAttempts.
func (l *AttemptLimiter) Acquire(ctx context.Context, username string) (bool, error) {
	if !l.enabled() {
		return true, nil
	}
	key := l.key(username)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("attempts acquire: %w", err)
	}
	return incr.Val() <= l.maxAttempts, nil
}

// Release gives back one attempt.
func (l *AttemptLimiter) Release(ctx context.Context, username string) error {
	if !l.enabled() {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.key(username)}).Err(); err != nil {
		return fmt.Errorf("attempts release: %w", err)
	}
	return nil
}

// Reset clears the counter, typically after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, username string) error {
	if !l.enabled() {
		return nil
	}
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *AttemptLimiter) key(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}
