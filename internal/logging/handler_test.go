// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewContextHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestContextHandler_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "host/abc-000001")
	logger.InfoContext(ctx, "handled")

	if !strings.Contains(buf.String(), "request_id=host/abc-000001") {
		t.Errorf("output = %q, want request_id", buf.String())
	}
	if strings.Contains(buf.String(), "category=") {
		t.Errorf("info records should not be categorized: %q", buf.String())
	}
}

func TestContextHandler_Category(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"login failed", CategoryAuth},
		{"CSRF validation failed", CategoryAuth},
		{"audit append failed", CategoryAudit},
		{"redis cache unavailable", CategoryCache},
		{"document integrity check failed", CategoryStore},
		{"failed to render public view", CategoryContent},
		{"something else", CategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var buf bytes.Buffer
			newTestLogger(&buf).Warn(tt.msg)
			if !strings.Contains(buf.String(), "category="+tt.want) {
				t.Errorf("output = %q, want category=%s", buf.String(), tt.want)
			}
		})
	}
}

func TestContextHandler_ExplicitCategoryKept(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Error("login failed", "category", "custom")

	out := buf.String()
	if !strings.Contains(out, "category=custom") || strings.Count(out, "category=") != 1 {
		t.Errorf("output = %q, want only the explicit category", out)
	}
}

func TestContextHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).With("component", "scheduler").Warn("scan finished")

	out := buf.String()
	if !strings.Contains(out, "component=scheduler") || !strings.Contains(out, "category=") {
		t.Errorf("output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
