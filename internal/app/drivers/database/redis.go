package database

import (
	"clinic-service/internal/app/config"
	"context"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the compensation cache and fails fast when it
// is unreachable.
func NewRedisClient(driverConfig *config.DriverConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password:     driverConfig.Redis.Password,
		DB:           driverConfig.Redis.Database,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		log.Fatalf("Could not connect to Redis at %s: %v", client.Options().Addr, err)
	}
	log.Printf("Successfully connected to redis db %d", driverConfig.Redis.Database)

	return client
}
