// Package config loads service settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/neoscope/asteroid-paths/pkg/cache"
	"github.com/neoscope/asteroid-paths/pkg/logging"
	"github.com/neoscope/asteroid-paths/pkg/neows"
)

// Config is the complete service configuration.
type Config struct {
	Port string

	NeoWs neows.Config

	Cache cache.Options

	// RedisURL selects the Redis cache backend when set. Either a
	// redis:// URL or a bare host:port.
	RedisURL string

	Log logging.Config
}

// Load reads .env files (missing files are fine) and then the environment.
// Invalid values are reported rather than replaced by defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port: env("PORT", "8080"),
		NeoWs: neows.Config{
			BaseURL:   env("NEOWS_BASE_URL", neows.DefaultBaseURL),
			APIKey:    env("NEOWS_API_KEY", neows.DefaultAPIKey),
			UserAgent: env("USER_AGENT", neows.DefaultUserAgent),
		},
		RedisURL: getenv("REDIS_URL"),
		Log: logging.Config{
			Level:  logging.LogLevel(env("LOG_LEVEL", string(logging.LevelInfo))),
			Output: os.Stderr,
		},
	}

	var err error
	if cfg.NeoWs.Timeout, err = time.ParseDuration(env("NEOWS_TIMEOUT", neows.DefaultTimeout.String())); err != nil {
		return Config{}, fmt.Errorf("NEOWS_TIMEOUT: %w", err)
	}

	maxSize, err := strconv.Atoi(env("CACHE_MAX_SIZE", strconv.Itoa(cache.DefaultMaxSize)))
	if err != nil || maxSize <= 0 {
		return Config{}, fmt.Errorf("CACHE_MAX_SIZE must be a positive integer (got %q)", getenv("CACHE_MAX_SIZE"))
	}
	maxAgeMs, err := strconv.ParseInt(env("CACHE_EXPIRE_AFTER_WRITE_MS", strconv.FormatInt(cache.DefaultMaxAge.Milliseconds(), 10)), 10, 64)
	if err != nil || maxAgeMs <= 0 {
		return Config{}, fmt.Errorf("CACHE_EXPIRE_AFTER_WRITE_MS must be a positive integer (got %q)", getenv("CACHE_EXPIRE_AFTER_WRITE_MS"))
	}
	cfg.Cache = cache.Options{MaxSize: maxSize, MaxAge: time.Duration(maxAgeMs) * time.Millisecond}

	if cfg.Log.Pretty, err = strconv.ParseBool(env("LOG_PRETTY", "false")); err != nil {
		return Config{}, fmt.Errorf("LOG_PRETTY: %w", err)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric (got %q)", cfg.Port)
	}

	return cfg, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
