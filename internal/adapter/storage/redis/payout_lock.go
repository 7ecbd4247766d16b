package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if the caller still owns it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PayoutLocker implements ports.PayoutLocker using Redis SET NX.
type PayoutLocker struct {
	client goredis.UniversalClient
	prefix string
}

// NewPayoutLocker creates a new Redis-backed lock.
func NewPayoutLocker(client goredis.UniversalClient) *PayoutLocker {
	return &PayoutLocker{
		client: client,
		prefix: "lock:",
	}
}

// Acquire takes the lock if free. The returned token must be passed to Release.
func (l *PayoutLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	result, err := l.client.SetArgs(ctx, l.prefix+key, token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return token, result == "OK", nil
}

// Release frees the lock if token still owns it. An expired or stolen
// lock is left alone.
func (l *PayoutLocker) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
