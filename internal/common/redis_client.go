package common

import (
	"context"
	"time"

	"river-transit/ticketdesk/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client and pings it once. The client is returned
// even when the ping fails; the pool reconnects on demand.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	logging.Info("Initializing Redis client", "addr", addr, "db", db)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "addr", addr, "error", err)
		return client, err
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client, nil
}
