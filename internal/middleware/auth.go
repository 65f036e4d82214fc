// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin session gate,
// CSRF protection, login throttling and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyActor       ContextKey = "actor"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/admin/login"

// LoadAdmin creates middleware that loads the signed-in admin from the
// session into the request context. A session whose roles do not include
// the admin role is treated as signed out.
func LoadAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := sm.GetString(ctx, session.KeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor := &content.Actor{
				ID:    userID,
				Email: sm.GetString(ctx, session.KeyEmail),
				Name:  sm.GetString(ctx, session.KeyName),
				Roles: splitRoles(sm.GetString(ctx, session.KeyRoles)),
			}
			if !actor.HasRole(content.RoleAdmin) {
				slog.Warn("session lacks admin role", "user_id", userID, "roles", actor.Roles, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
		})
	}
}

// RequireAdmin rejects requests without a signed-in admin. JSON clients get
// 401; browsers are redirected to the login page.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetActor(r) != nil {
			next.ServeHTTP(w, r)
			return
		}

		slog.Info("unauthenticated admin request", "method", r.Method, "path", r.URL.Path)
		if WantsJSON(r) {
			writeJSONError(w, http.StatusUnauthorized, content.ErrUnauthorized.Error())
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *content.Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// GetActor retrieves the signed-in admin from the request context.
// Returns nil if there is none.
func GetActor(r *http.Request) *content.Actor {
	actor, ok := r.Context().Value(ContextKeyActor).(*content.Actor)
	if !ok {
		return nil
	}
	return actor
}

// SignIn stores actor in a fresh session.
func SignIn(ctx context.Context, sm *scs.SessionManager, actor *content.Actor) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, session.KeyUserID, actor.ID)
	sm.Put(ctx, session.KeyEmail, actor.Email)
	sm.Put(ctx, session.KeyName, actor.Name)
	sm.Put(ctx, session.KeyRoles, strings.Join(actor.Roles, ","))
	return nil
}

// SignOut destroys the current session.
func SignOut(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

func splitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
