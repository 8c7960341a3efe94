package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type recordCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts upstream record fetches with a short-lived Redis cache.
// A broken cache never fails a request: lookups degrade to the loader and
// write failures are logged and swallowed.
type CacheService struct {
	cache   recordCache
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
	ttl     time.Duration
}

// NewCacheService constructs the record cache orchestrator. A nil cache or
// enabled=false yields a pass-through service.
func NewCacheService(cache recordCache, metrics *MetricsService, logger *zap.Logger, enabled bool, ttl time.Duration) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		enabled: enabled && cache != nil,
		ttl:     ttl,
	}
}

// Fetch resolves a record through the cache. On a miss the loader fills dest
// and the result is written back for the configured TTL.
func (s *CacheService) Fetch(ctx context.Context, key string, dest interface{}, loader func(ctx context.Context) error) error {
	if s == nil || !s.enabled {
		return loader(ctx)
	}

	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		s.metrics.RecordCacheOperation(true)
		return nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("record cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.metrics.RecordCacheOperation(false)

	if err := loader(ctx); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, key, dest, s.ttl); err != nil {
		s.logger.Warn("record cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Store writes a value directly, used when a caller already holds fresh data.
func (s *CacheService) Store(ctx context.Context, key string, value interface{}) {
	if s == nil || !s.enabled {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("record cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached record matching the pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if s == nil || !s.enabled {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("record cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
