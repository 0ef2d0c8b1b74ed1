package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/edaplatform/eda-api/application/port/outbound"
)

// CacheConfig configures the representation cache. Driver is one of
// "none", "memory" or "redis".
type CacheConfig struct {
	Driver    string
	RedisURL  string
	KeyPrefix string
}

// redisCache stores JSON-encoded representations in Redis
type redisCache struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	prefix      string
}

// NewRepresentationCache builds the cache selected by config.Driver
func NewRepresentationCache(config CacheConfig, logger *logrus.Logger) (outbound.RepresentationCache, error) {
	switch config.Driver {
	case "", "none":
		logger.Info("Representation cache disabled")
		return NewNoopCache(), nil
	case "memory":
		logger.Info("Representation cache in memory")
		return NewMemoryCache(), nil
	case "redis":
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", config.Driver)
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"prefix": config.KeyPrefix,
	}).Info("Representation cache initialized")

	return NewRedisCache(redisClient, config.KeyPrefix, logger), nil
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, prefix string, logger *logrus.Logger) outbound.RepresentationCache {
	return &redisCache{redisClient: client, logger: logger, prefix: prefix}
}

func (c *redisCache) key(key string) string {
	return c.prefix + key
}

func (c *redisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.redisClient.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.logger.WithContext(ctx).WithError(err).Error("Failed to read cached representation")
		return false, fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		// A stale shape is treated as a miss and dropped
		c.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Discarding undecodable cache entry")
		_ = c.redisClient.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.redisClient.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).Error("Failed to write cached representation")
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.redisClient.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key: %w", err)
	}
	return nil
}

// noopCache never stores anything
type noopCache struct{}

func NewNoopCache() outbound.RepresentationCache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	return false, nil
}

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, key string) error {
	return nil
}
