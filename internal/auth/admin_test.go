// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"

	"github.com/olegiv/contentdesk/internal/testutil"
)

func TestAuthenticate_Hash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	a := NewAuthenticator(AdminConfig{
		UserID:       "user-1",
		Email:        "Admin@Example.com",
		Name:         "Admin",
		Roles:        []string{" admin ", "", "admin", "editor"},
		PasswordHash: hash,
	}, testutil.TestLoggerSilent())

	actor, err := a.Authenticate(" admin@example.COM ", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if actor.ID != "user-1" || actor.Email != "admin@example.com" || actor.Name != "Admin" {
		t.Errorf("actor = %+v", actor)
	}
	if len(actor.Roles) != 2 || !actor.HasRole(RoleAdmin) {
		t.Errorf("Roles = %v, want [admin editor]", actor.Roles)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@example.com", "nope"},
		{"wrong email", "other@example.com", "s3cret"},
		{"empty password", "admin@example.com", ""},
		{"empty email", "", "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Authenticate(tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticate_Plaintext(t *testing.T) {
	cfg := AdminConfig{Email: "admin@example.com", Password: "dev-pass", Roles: []string{RoleAdmin}}

	cfg.AllowPlaintext = true
	dev := NewAuthenticator(cfg, testutil.TestLoggerSilent())
	actor, err := dev.Authenticate("admin@example.com", "dev-pass")
	if err != nil {
		t.Fatalf("dev Authenticate error: %v", err)
	}
	if actor.ID != "admin" {
		t.Errorf("ID = %q, want default %q", actor.ID, "admin")
	}

	cfg.AllowPlaintext = false
	prod := NewAuthenticator(cfg, testutil.TestLoggerSilent())
	if _, err := prod.Authenticate("admin@example.com", "dev-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("plain-text password accepted outside development: %v", err)
	}
}

func TestAuthenticate_Unconfigured(t *testing.T) {
	a := NewAuthenticator(AdminConfig{}, testutil.TestLoggerSilent())
	if _, err := a.Authenticate("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate_BadHashFormat(t *testing.T) {
	a := NewAuthenticator(AdminConfig{Email: "admin@example.com", PasswordHash: "plain"}, testutil.TestLoggerSilent())
	if _, err := a.Authenticate("admin@example.com", "plain"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestActor_ReturnsCopy(t *testing.T) {
	a := NewAuthenticator(AdminConfig{Email: "admin@example.com", Roles: []string{RoleAdmin}}, testutil.TestLoggerSilent())
	first := a.Actor()
	first.Roles[0] = "tampered"
	if !a.Actor().HasRole(RoleAdmin) {
		t.Error("mutating a returned actor changed the account")
	}
}
