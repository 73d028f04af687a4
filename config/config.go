// Package config loads server and CLI settings from defaults, an optional
// config file, a .env file, THEMEPREFS_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/encryption"
)

// EnvPrefix prefixes every environment variable, e.g. THEMEPREFS_STORAGE_TYPE.
const EnvPrefix = "THEMEPREFS"

// Storage backend names.
const (
	StorageMemory     = "memory"
	StorageSQLite     = "sqlite"
	StorageSQLitePure = "sqlite-pure"
	StoragePostgres   = "postgres"
)

// Cache backend names.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
	LogFormatZap  = "zap"
)

// Config is the complete application configuration.
type Config struct {
	ListenAddr string        `mapstructure:"listen_addr"`
	Storage    StorageConfig `mapstructure:"storage"`
	Cache      CacheConfig   `mapstructure:"cache"`
	Session    SessionConfig `mapstructure:"session"`
	Log        LogConfig     `mapstructure:"log"`
	Detect     DetectConfig  `mapstructure:"detect"`
}

// StorageConfig selects the durable preference store.
type StorageConfig struct {
	Type string `mapstructure:"type"`
	// DSN is a file path for SQLite and a connection string for PostgreSQL.
	DSN string `mapstructure:"dsn"`
}

// CacheConfig selects the read cache in front of the store.
type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SessionConfig controls browser sessions.
type SessionConfig struct {
	// Secret seals session cookies. Empty means a random per-process secret.
	Secret string `mapstructure:"secret"`
	// TTL is how long an idle session's controller is kept in memory.
	TTL time.Duration `mapstructure:"ttl"`
	// Secure marks the session cookie Secure.
	Secure bool `mapstructure:"secure"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DetectConfig controls the environment colour-scheme signal.
type DetectConfig struct {
	// EnvVar names an environment variable that overrides the detected scheme.
	EnvVar string `mapstructure:"env_var"`
}

// SetDefaults registers every key with its default so environment variables
// are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("cache.type", CacheNone)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.secure", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatJSON)
	v.SetDefault("detect.env_var", "THEMEPREFS_COLOR_SCHEME")
}

// Load builds a Config. configFile and dotEnvFile are optional; a missing
// .env file is not an error, a missing explicit config file is.
func Load(v *viper.Viper, configFile, dotEnvFile string) (*Config, error) {
	if dotEnvFile != "" {
		if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", dotEnvFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backends and unusable settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Type {
	case StorageMemory:
	case StorageSQLite, StorageSQLitePure, StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for %s", c.Storage.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage.type %q", c.Storage.Type))
	}

	switch c.Cache.Type {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Addr == "" {
			errs = append(errs, errors.New("cache.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported cache.type %q", c.Cache.Type))
	}

	if c.Session.Secret != "" && len(c.Session.Secret) < encryption.MinKeyLength {
		errs = append(errs, fmt.Errorf("session.secret: %w", encryption.ErrInvalidKeyLength))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}

	if _, err := themeprefs.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case LogFormatJSON, LogFormatText, LogFormatZap:
	default:
		errs = append(errs, fmt.Errorf("unsupported log.format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", themeprefs.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
