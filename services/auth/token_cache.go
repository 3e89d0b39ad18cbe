package auth

import (
	"context"
	"errors"

	"homeserve/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TokenCache keeps the active token hash per account in the Redis auth DB.
// A nil client disables caching.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

// Get returns the cached hash, if any.
func (c *TokenCache) Get(ctx context.Context, role, id string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	hash, err := c.client.Get(ctx, utils.AuthCacheKey(role, id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("auth cache read failed", zap.Error(err))
		}
		return "", false
	}
	return hash, true
}

func (c *TokenCache) Set(ctx context.Context, role, id, hash string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, utils.AuthCacheKey(role, id), hash, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("auth cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached hash so the next request re-reads the account.
func (c *TokenCache) Invalidate(ctx context.Context, role, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, utils.AuthCacheKey(role, id)).Err(); err != nil {
		utils.GetLogger().Warn("auth cache invalidation failed", zap.Error(err))
	}
}
