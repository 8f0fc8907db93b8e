package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const queueNumberKey = "foodcourt:queue_number"

// RedisCounterAdapter issues queue numbers through a single Redis counter.
// INCR is atomic and serialized by the server, so numbers are strictly
// increasing across concurrent checkouts and across server instances.
type RedisCounterAdapter struct {
	client *redis.Client
}

func NewRedisCounterAdapter(client *redis.Client) *RedisCounterAdapter {
	return &RedisCounterAdapter{client: client}
}

func (r *RedisCounterAdapter) NextQueueNumber(ctx context.Context) (int64, error) {
	return r.client.Incr(ctx, queueNumberKey).Result()
}

// CurrentQueueNumber returns the last issued number, 0 when none was issued.
func (r *RedisCounterAdapter) CurrentQueueNumber(ctx context.Context) (int64, error) {
	n, err := r.client.Get(ctx, queueNumberKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// ResetQueueNumber force-sets the counter. Operational use only, e.g. when
// seeding an environment; never called on the request path.
func (r *RedisCounterAdapter) ResetQueueNumber(ctx context.Context, n int64) error {
	return r.client.Set(ctx, queueNumberKey, n, 0).Err()
}
