package config

import (
	"fmt"
	"os"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/cache"
	"github.com/CreativeUnicorns/themeprefs/detect"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

// NewLogger builds the configured logger.
func (c *Config) NewLogger() (themeprefs.Logger, error) {
	level, err := themeprefs.ParseLogLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	var logger themeprefs.Logger
	switch c.Log.Format {
	case LogFormatZap:
		logger, err = themeprefs.NewZapProductionLogger()
		if err != nil {
			return nil, fmt.Errorf("config: failed to build zap logger: %w", err)
		}
	case LogFormatText:
		logger = themeprefs.NewSlogLogger(os.Stderr, true)
	default:
		logger = themeprefs.NewDefaultLogger()
	}
	logger.SetLevel(level)
	return logger, nil
}

// OpenBackend opens the configured store, wrapped in the configured cache.
func (c *Config) OpenBackend(logger themeprefs.Logger) (storage.Backend, error) {
	var backend storage.Backend
	var err error

	switch c.Storage.Type {
	case StorageMemory:
		backend = storage.NewMemoryStorage()
	case StorageSQLite:
		backend, err = storage.NewSQLiteStorage(c.Storage.DSN)
	case StorageSQLitePure:
		backend, err = storage.NewPureSQLiteStorage(c.Storage.DSN)
	case StoragePostgres:
		backend, err = storage.NewPostgresStorage(c.Storage.DSN)
	default:
		return nil, fmt.Errorf("%w: unsupported storage.type %q", themeprefs.ErrInvalidInput, c.Storage.Type)
	}
	if err != nil {
		return nil, err
	}

	var ca themeprefs.Cache
	switch c.Cache.Type {
	case CacheNone:
		return backend, nil
	case CacheMemory:
		ca = cache.NewMemoryCache()
	case CacheRedis:
		ca, err = cache.NewRedisCache(c.Cache.Addr, c.Cache.Password, c.Cache.DB)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
	default:
		_ = backend.Close()
		return nil, fmt.Errorf("%w: unsupported cache.type %q", themeprefs.ErrInvalidInput, c.Cache.Type)
	}
	return storage.NewCachedStorage(backend, ca, c.Cache.TTL, logger), nil
}

// EnvDetector returns the environment-variable override detector.
func (c *Config) EnvDetector() themeprefs.Detector {
	if c.Detect.EnvVar == "" {
		return detect.None()
	}
	return detect.Env(c.Detect.EnvVar)
}
