// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const viewPrefix = "view:"

// Views caches rendered responses keyed by request path. It satisfies the
// content engine's invalidation hook.
type Views struct {
	cache Cacher
	ttl   time.Duration
}

// NewViews wraps c. A zero ttl uses the backend default.
func NewViews(c Cacher, ttl time.Duration) *Views {
	return &Views{cache: c, ttl: ttl}
}

func viewKey(path string) string {
	return viewPrefix + path
}

// Get returns the cached rendering of path, if any.
func (v *Views) Get(ctx context.Context, path string) ([]byte, bool) {
	body, err := v.cache.Get(ctx, viewKey(path))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("view cache read failed", "path", path, "error", err)
		}
		return nil, false
	}
	return body, true
}

// Render returns the cached body for path or calls render and caches its
// output. Render errors are returned and nothing is cached.
func (v *Views) Render(ctx context.Context, path string, render func(context.Context) ([]byte, error)) ([]byte, error) {
	if body, ok := v.Get(ctx, path); ok {
		return body, nil
	}

	body, err := render(ctx)
	if err != nil {
		return nil, err
	}
	if err := v.cache.Set(ctx, viewKey(path), body, v.ttl); err != nil {
		slog.Warn("view cache write failed", "path", path, "error", err)
	}
	return body, nil
}

// Invalidate drops the cached views for paths, including variants of each
// path rendered with a query string.
func (v *Views) Invalidate(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := v.cache.Delete(ctx, viewKey(p)); err != nil {
			slog.Warn("view invalidation failed", "path", p, "error", err)
			continue
		}
		if err := v.cache.DeleteByPrefix(ctx, viewKey(p)+"?"); err != nil {
			slog.Warn("view invalidation failed", "path", p, "error", err)
		}
	}
}

// Purge drops every cached view.
func (v *Views) Purge(ctx context.Context) error {
	return v.cache.DeleteByPrefix(ctx, viewPrefix)
}

// Stats reports backend statistics when the backend tracks them.
func (v *Views) Stats() (Stats, bool) {
	sp, ok := v.cache.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

// Close closes the backend.
func (v *Views) Close() error {
	return v.cache.Close()
}
