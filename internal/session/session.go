// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// Keys under which the signed-in admin is stored.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyName   = "name"
	KeyRoles  = "roles"
)

// Lifetime is the absolute lifetime of an admin session.
const Lifetime = 24 * time.Hour

// New creates a session manager. Sessions are kept in the SQLite database
// when db is non-nil and in process memory otherwise.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if db != nil {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}
