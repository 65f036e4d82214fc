// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
}

// NewCache creates a Redis cache when a URL is configured and a memory
// cache otherwise. An unreachable Redis falls back to memory with a warning.
func NewCache(cfg Config) Cacher {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		opts.DefaultTTL = cfg.DefaultTTL

		rc, err := NewRedisCache(opts)
		if err == nil {
			slog.Info("view cache using redis", "prefix", opts.Prefix)
			return rc
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cleanup,
	})
}
