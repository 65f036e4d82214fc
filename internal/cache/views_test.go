// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/contentdesk/internal/content"
)

var _ content.Invalidator = (*Views)(nil)

func TestViews_RenderCachesOutput(t *testing.T) {
	views := NewViews(newTestMemoryCache(0), time.Minute)
	defer func() { _ = views.Close() }()
	ctx := context.Background()

	calls := 0
	render := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`[{"slug":"hello"}]`), nil
	}

	for range 3 {
		body, err := views.Render(ctx, "/blog", render)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if string(body) != `[{"slug":"hello"}]` {
			t.Errorf("body = %s", body)
		}
	}
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
}

func TestViews_RenderErrorIsNotCached(t *testing.T) {
	views := NewViews(newTestMemoryCache(0), time.Minute)
	defer func() { _ = views.Close() }()
	ctx := context.Background()

	boom := errors.New("boom")
	if _, err := views.Render(ctx, "/blog", func(context.Context) ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := views.Get(ctx, "/blog"); ok {
		t.Error("failed render must not be cached")
	}
}

func TestViews_Invalidate(t *testing.T) {
	views := NewViews(newTestMemoryCache(0), time.Minute)
	defer func() { _ = views.Close() }()
	ctx := context.Background()

	for _, p := range []string{"/", "/blog", "/blog?page=2", "/careers", "/admin/blog"} {
		path := p
		_, _ = views.Render(ctx, path, func(context.Context) ([]byte, error) { return []byte(path), nil })
	}

	views.Invalidate(ctx, "/admin/blog", "/blog", "/")

	for path, cached := range map[string]bool{
		"/":            false,
		"/blog":        false,
		"/blog?page=2": false,
		"/admin/blog":  false,
		"/careers":     true,
	} {
		if _, ok := views.Get(ctx, path); ok != cached {
			t.Errorf("cached(%q) = %v, want %v", path, ok, cached)
		}
	}
}

func TestViews_Purge(t *testing.T) {
	mem := newTestMemoryCache(0)
	views := NewViews(mem, time.Minute)
	defer func() { _ = views.Close() }()
	ctx := context.Background()

	_ = mem.Set(ctx, "unrelated", []byte("x"), 0)
	_, _ = views.Render(ctx, "/research", func(context.Context) ([]byte, error) { return []byte("{}"), nil })

	if err := views.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, ok := views.Get(ctx, "/research"); ok {
		t.Error("view survived purge")
	}
	if has, _ := mem.Has(ctx, "unrelated"); !has {
		t.Error("purge removed a non-view key")
	}

	if _, ok := views.Stats(); !ok {
		t.Error("memory backend should report stats")
	}
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	c := NewCache(Config{RedisURL: "not a url"})
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("NewCache returned %T, want *MemoryCache", c)
	}

	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if has, _ := c.Has(ctx, "k"); !has {
		t.Error("default TTL should keep entries alive")
	}
}
