package notifications

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

// RedisKeyTracker shares idempotency keys between processes with SET NX PX.
type RedisKeyTracker struct {
	client rueidis.Client
	prefix string
}

func NewRedisKeyTracker(client rueidis.Client, prefix string) *RedisKeyTracker {
	return &RedisKeyTracker{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisKeyTracker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ms := ttl.Milliseconds()
	if ms <= 0 {
		ms = 1
	}

	cmd := r.client.B().Set().Key(r.prefix + key).Value("1").Nx().PxMilliseconds(ms).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
