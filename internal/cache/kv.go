package cache

import (
	redis "github.com/redis/go-redis/v9"
)

// NewRedis creates a client for addr.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})
}
