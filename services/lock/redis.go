package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unlockScript deletes the key only if it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared between processes through Redis.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewRedisLocker returns a Locker whose keys expire after ttl so that a
// crashed holder cannot block a stall forever.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		client: client,
		prefix: "bookfair:lock:",
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := orderKeys(keys)
	token := uuid.New().String()
	wctx, cancel := waitContext(ctx, r.wait)
	defer cancel()

	held := make([]string, 0, len(ordered))
	for _, key := range ordered {
		if err := r.take(wctx, r.prefix+key, token); err != nil {
			r.release(held, token)
			return nil, timeoutErr(ctx, err)
		}
		held = append(held, r.prefix+key)
	}

	var once sync.Once
	return func() { once.Do(func() { r.release(held, token) }) }, nil
}

func (r *RedisLocker) take(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *RedisLocker) release(held []string, token string) {
	// Release must run even when the caller's context has been cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(held) - 1; i >= 0; i-- {
		if err := unlockScript.Run(ctx, r.client, []string{held[i]}, token).Err(); err != nil {
			r.logger.Warn("Failed to release lock", zap.String("key", held[i]), zap.Error(err))
		}
	}
}
