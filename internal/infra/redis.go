package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis dials the Redis instance both services share. billingd keeps the
// rate table cached in it; weightd only touches it from the health probe.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Fail at boot rather than on the first cache read
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
