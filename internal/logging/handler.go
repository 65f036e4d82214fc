// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog handler used by the server. It tags
// records logged with a request context with the chi request ID, and tags
// warnings and errors with a category so they can be filtered by area.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Log categories.
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
	CategoryAudit   = "audit"
	CategoryCache   = "cache"
	CategoryStore   = "store"
	CategorySystem  = "system"
)

// ParseLevel maps a configured level name to a slog.Level. Unknown names
// yield info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewContextHandler(inner))
}

// ContextHandler is a slog.Handler that wraps another handler and adds
// request and category attributes.
type ContextHandler struct {
	inner slog.Handler
	level slog.Level // Minimum level that gets a category (default: WARN)
}

// NewContextHandler creates a new ContextHandler that wraps the given handler.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := chimw.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
	}
	if r.Level >= h.level && !hasAttr(r, "category") {
		r.AddAttrs(slog.String("category", category(r)))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), level: h.level}
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

// category infers the area a record belongs to from its message.
func category(r slog.Record) string {
	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "sign-in") || strings.Contains(msg, "session") || strings.Contains(msg, "csrf"):
		return CategoryAuth
	case strings.Contains(msg, "audit"):
		return CategoryAudit
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	case strings.Contains(msg, "document") || strings.Contains(msg, "integrity"):
		return CategoryStore
	case strings.Contains(msg, "mutation") || strings.Contains(msg, "content") || strings.Contains(msg, "view"):
		return CategoryContent
	default:
		return CategorySystem
	}
}
