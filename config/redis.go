package config

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects to the cache used for selfie-status polling. Redis is
// optional: when REDIS_ADDR is unset the API runs without the cache.
func InitRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
