// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"homeserve/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// OTPCacheClient holds issued one-time codes.
	OTPCacheClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitRedis connects the auth and OTP Redis clients.
func InitRedis() error {
	auth, err := newRedisClient(config.AppConfig.RedisAuthDB)
	if err != nil {
		return err
	}
	otp, err := newRedisClient(config.AppConfig.RedisOTPDB)
	if err != nil {
		return err
	}
	AuthCacheClient = auth
	OTPCacheClient = otp
	return nil
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// GetOTPCacheClient returns the Redis client storing one-time codes.
func GetOTPCacheClient() *redis.Client {
	return OTPCacheClient
}

// RedisClients lists every initialised client, for health checks and shutdown.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{AuthCacheClient, OTPCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
