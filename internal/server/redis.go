package server

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// Will connect to the Redis server at REDIS_HOST and ping it.
func CreateRedisClient(ctx context.Context) (*redis.Client, error) {
	addr := fmt.Sprintf("%v:6379", os.Getenv("REDIS_HOST"))

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return rdb, nil
}

// Will build the token store selected by the SESSIONS env var.
// The returned close function releases the Redis client when one was opened.
func CreateTokenStore(ctx context.Context) (TokenStore, func() error, error) {
	switch sessions := os.Getenv("SESSIONS"); sessions {
	case "memory":
		return CreateMemoryTokenStore(), func() error { return nil }, nil

	case "redis", "":
		rdb, err := CreateRedisClient(ctx)
		if err != nil {
			return nil, nil, err
		}

		return CreateRedisTokenStore(rdb), rdb.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", sessions)
	}
}
