package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// newRedisClient builds a client from a redis://, rediss:// or unix:// URL.
// Password and database index come from the URL.
func newRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// popJob blocks up to timeout on queue and returns the popped payload. An
// empty payload means the wait timed out.
func popJob(ctx context.Context, rdb redis.Cmdable, queue string, timeout time.Duration) (string, error) {
	res, err := rdb.BRPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(res) != 2 {
		return "", fmt.Errorf("BRPOP returned %d elements", len(res))
	}
	return res[1], nil
}
