package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
)

// MemoryCache keeps video results in an in-process freecache segment.
type MemoryCache struct {
	cache  *freecache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewMemoryCache(sizeMB int, ttl time.Duration, logger *zap.Logger) *MemoryCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCache{
		cache:  freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:    ttl,
		logger: logger,
	}
}

func (m *MemoryCache) GetVideo(_ context.Context, key string) (domain.VideoSearchResult, bool) {
	raw, err := m.cache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			m.logger.Warn("Memory cache get failed", zap.String("key", key), zap.Error(err))
		}
		return domain.VideoSearchResult{}, false
	}

	var result domain.VideoSearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		m.logger.Warn("Memory cache entry corrupt", zap.String("key", key), zap.Error(err))
		m.cache.Del([]byte(key))
		return domain.VideoSearchResult{}, false
	}
	return result, true
}

func (m *MemoryCache) SetVideo(_ context.Context, key string, result domain.VideoSearchResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := m.cache.Set([]byte(key), raw, int(m.ttl.Seconds())); err != nil {
		m.logger.Warn("Memory cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Stats returns hit and miss counters since start.
func (m *MemoryCache) Stats() (hits, misses int64) {
	return m.cache.HitCount(), m.cache.MissCount()
}

func (m *MemoryCache) Close() error {
	m.cache.Clear()
	return nil
}
