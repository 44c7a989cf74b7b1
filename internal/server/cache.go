package server

import (
	"context"
	"time"

	"newshub/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// pageCache keeps rendered listing pages in redis for a short TTL. A nil
// client disables caching entirely; cache errors degrade to a miss.
type pageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newPageCache(client *redis.Client, ttlSeconds int) *pageCache {
	return &pageCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *pageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return payload, true
}

func (c *pageCache) Set(ctx context.Context, key string, payload []byte) {
	if c.client == nil || c.ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
	}
}
