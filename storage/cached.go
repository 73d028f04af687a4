package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
)

// CachedStorage puts a themeprefs.Cache in front of a Backend. Reads are
// served from the cache when possible; writes go to the backend first and
// then refresh the cache. Cache failures are logged and never fail a call.
type CachedStorage struct {
	backend Backend
	cache   themeprefs.Cache
	ttl     time.Duration
	logger  themeprefs.Logger
}

// NewCachedStorage wraps backend with cache. A nil logger uses
// themeprefs.DefaultLogger.
func NewCachedStorage(backend Backend, cache themeprefs.Cache, ttl time.Duration, logger themeprefs.Logger) *CachedStorage {
	if logger == nil {
		logger = themeprefs.DefaultLogger()
	}
	return &CachedStorage{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns the cached value, falling back to the backend on a miss.
func (s *CachedStorage) Get(ctx context.Context, scope, key string) (string, error) {
	cacheKey := cacheKeyFor(scope, key)
	v, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, themeprefs.ErrNotFound) {
		s.logger.Warn("Failed to read theme preference from cache", "scope", scope, "key", key, "error", err)
	}

	v, err = s.backend.Get(ctx, scope, key)
	if err != nil {
		return "", err
	}
	s.setToCache(ctx, cacheKey, v)
	return v, nil
}

// Set writes through to the backend and refreshes the cache.
func (s *CachedStorage) Set(ctx context.Context, scope, key, value string) error {
	if err := s.backend.Set(ctx, scope, key, value); err != nil {
		// The cached value may now disagree with the backend.
		s.deleteFromCache(ctx, cacheKeyFor(scope, key))
		return err
	}
	s.setToCache(ctx, cacheKeyFor(scope, key), value)
	return nil
}

// Delete removes the value from the backend and the cache.
func (s *CachedStorage) Delete(ctx context.Context, scope, key string) error {
	err := s.backend.Delete(ctx, scope, key)
	s.deleteFromCache(ctx, cacheKeyFor(scope, key))
	return err
}

// Close closes the backend and the cache.
func (s *CachedStorage) Close() error {
	return errors.Join(s.backend.Close(), s.cache.Close())
}

func (s *CachedStorage) setToCache(ctx context.Context, cacheKey, value string) {
	if err := s.cache.Set(ctx, cacheKey, value, s.ttl); err != nil {
		s.logger.Warn("Failed to cache theme preference", "cache_key", cacheKey, "error", err)
	}
}

func (s *CachedStorage) deleteFromCache(ctx context.Context, cacheKey string) {
	if err := s.cache.Delete(ctx, cacheKey); err != nil && !errors.Is(err, themeprefs.ErrNotFound) {
		s.logger.Warn("Failed to delete theme preference from cache", "cache_key", cacheKey, "error", err)
	}
}

func cacheKeyFor(scope, key string) string {
	return fmt.Sprintf("theme:%s:%s", scope, key)
}
