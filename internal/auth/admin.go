// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/olegiv/contentdesk/internal/content"
)

// RoleAdmin is the role required to manage content.
const RoleAdmin = content.RoleAdmin

// ErrInvalidCredentials is returned for any failed sign-in. It deliberately
// does not say which part was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminConfig describes the single environment-configured admin account.
type AdminConfig struct {
	UserID       string
	Email        string
	Name         string
	Roles        []string
	PasswordHash string
	// Password is a plain-text password, honoured only when AllowPlaintext is set.
	Password       string
	AllowPlaintext bool
}

// Authenticator checks sign-in attempts against the admin account.
type Authenticator struct {
	cfg    AdminConfig
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator and logs configuration problems
// once at startup.
func NewAuthenticator(cfg AdminConfig, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Email = strings.ToLower(strings.TrimSpace(cfg.Email))
	cfg.Roles = normalizeRoles(cfg.Roles)

	a := &Authenticator{cfg: cfg, logger: logger}
	switch {
	case cfg.Email == "":
		logger.Warn("admin email not configured; sign-in disabled")
	case cfg.PasswordHash != "" && !IsHash(cfg.PasswordHash):
		logger.Warn("admin password hash has an unknown format; sign-in will fail")
	case cfg.PasswordHash != "" && isArgon2(cfg.PasswordHash) && NeedsRehash(cfg.PasswordHash):
		logger.Info("admin password hash uses outdated parameters; consider regenerating it")
	case cfg.PasswordHash == "" && cfg.Password != "" && cfg.AllowPlaintext:
		logger.Warn("using plain-text admin password; set a password hash before production")
	case cfg.PasswordHash == "" && cfg.Password != "":
		logger.Warn("plain-text admin password ignored outside development; sign-in disabled")
	case cfg.PasswordHash == "":
		logger.Warn("admin password not configured; sign-in disabled")
	}
	if !hasRole(cfg.Roles, RoleAdmin) {
		logger.Warn("admin account lacks the admin role; it can sign in but not edit content", "roles", cfg.Roles)
	}
	return a
}

// Authenticate verifies the credentials and returns the signed-in actor.
func (a *Authenticator) Authenticate(email, password string) (*content.Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if a.cfg.Email == "" || email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(email), []byte(a.cfg.Email)) != 1 {
		return nil, ErrInvalidCredentials
	}

	ok, err := a.verify(password)
	if err != nil {
		a.logger.Error("admin password verification failed", "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return a.Actor(), nil
}

// Actor returns the admin account as an actor.
func (a *Authenticator) Actor() *content.Actor {
	id := a.cfg.UserID
	if id == "" {
		id = "admin"
	}
	roles := make([]string, len(a.cfg.Roles))
	copy(roles, a.cfg.Roles)
	return &content.Actor{ID: id, Email: a.cfg.Email, Name: a.cfg.Name, Roles: roles}
}

func (a *Authenticator) verify(password string) (bool, error) {
	if a.cfg.PasswordHash != "" {
		return CheckPassword(password, a.cfg.PasswordHash)
	}
	if a.cfg.Password != "" && a.cfg.AllowPlaintext {
		return subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.Password)) == 1, nil
	}
	return false, nil
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" && !hasRole(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
