// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2/memstore"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_MemoryStoreWithoutDB(t *testing.T) {
	sm := New(nil, true)

	if _, ok := sm.Store.(*memstore.MemStore); !ok {
		t.Errorf("Store = %T, want *memstore.MemStore", sm.Store)
	}
}

func TestNew_SQLiteStoreWithDB(t *testing.T) {
	db := setupTestDB(t)

	sm := New(db, true)

	store, ok := sm.Store.(*sqlite3store.SQLite3Store)
	if !ok {
		t.Fatalf("Store = %T, want *sqlite3store.SQLite3Store", sm.Store)
	}
	t.Cleanup(store.StopCleanup)
}

func TestNew_DevMode(t *testing.T) {
	sm := New(nil, true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name == "__Host-session" {
		t.Error("expected default cookie name in dev mode")
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(nil, false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-session" {
		t.Errorf("expected __Host-session cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	sm := New(nil, true)

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}

func TestMigrate_CreatesSessionsTable(t *testing.T) {
	db := setupTestDB(t)

	// Running migrations twice must be harmless.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	expiry := float64(time.Now().Add(time.Hour).Unix())
	if _, err := db.ExecContext(context.Background(),
		"INSERT INTO sessions (token, data, expiry) VALUES (?, ?, ?)", "tok", []byte("x"), expiry); err != nil {
		t.Fatalf("insert into sessions: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite3store.NewWithCleanupInterval(db, 0)

	expiry := time.Now().Add(time.Hour)
	if err := store.Commit("token-1", []byte("payload"), expiry); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, found, err := store.Find("token-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !found || string(got) != "payload" {
		t.Errorf("Find = %q, %v; want payload, true", got, found)
	}
}
