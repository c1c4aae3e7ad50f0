package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// CacheService is the Redis backed video cache.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.NewStorageError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return newCacheService(client, cfg.TTL, logger), nil
}

func newCacheService(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get decodes the JSON value at key into dest. A missing key reports found=false.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewStorageError("get failed", "get", key, err)
	}

	if err := json.Unmarshal(value, dest); err != nil {
		c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewStorageError("unmarshal failed", "get", key, err)
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewStorageError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewStorageError("set failed", "set", key, err)
	}

	return nil
}

// GetVideo treats any Redis failure as a miss.
func (c *CacheService) GetVideo(ctx context.Context, key string) (domain.VideoSearchResult, bool) {
	var result domain.VideoSearchResult
	found, err := c.Get(ctx, key, &result)
	if err != nil || !found {
		return domain.VideoSearchResult{}, false
	}
	return result, true
}

func (c *CacheService) SetVideo(ctx context.Context, key string, result domain.VideoSearchResult) {
	if err := c.Set(ctx, key, result, c.ttl); err != nil {
		c.logger.Warn("Video cache write skipped", zap.String("key", key), zap.Error(err))
	}
}

// Ping reports Redis reachability for health checks.
func (c *CacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	c.logger.Info("Redis connection closed")
	return nil
}
