// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/olegiv/contentdesk/internal/auth"
	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/middleware"
)

// LoginRecorder receives sign-in outcomes, usually for metrics.
type LoginRecorder interface {
	LoginAttempt(outcome string)
}

// Authenticator verifies admin credentials.
type Authenticator interface {
	Authenticate(email, password string) (*content.Actor, error)
}

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	auth            Authenticator
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	recorder        LoginRecorder
}

// NewAuthHandler creates a new AuthHandler. lp and recorder may be nil.
func NewAuthHandler(a Authenticator, sm *scs.SessionManager, lp *middleware.LoginProtection, recorder LoginRecorder) *AuthHandler {
	return &AuthHandler{
		auth:            a,
		sessionManager:  sm,
		loginProtection: lp,
		recorder:        recorder,
	}
}

// Session handles GET /admin/login and reports who is signed in.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r)
	if actor == nil {
		writeJSONSuccess(w, map[string]any{"authenticated": false})
		return
	}
	writeJSONSuccess(w, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    actor.ID,
			"email": actor.Email,
			"name":  actor.Name,
			"roles": actor.Roles,
		},
	})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	values, err := submission(w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := values.Get("email")
	password := values.Get("password")
	if email == "" || password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	client := clientInfo(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", append(client, "email", email)...)
			h.record(LoginLocked)
			writeJSONError(w, http.StatusTooManyRequests,
				"Account temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	actor, err := h.auth.Authenticate(email, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("authentication error", "error", err)
		}
		slog.Info("login failed", append(client, "email", email)...)
		h.failed(w, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := middleware.SignIn(r.Context(), h.sessionManager, actor); err != nil {
		slog.Error("session renewal error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.record(LoginSuccess)
	slog.Info("user logged in", append(client, "user_id", actor.ID, "email", actor.Email)...)

	if !middleware.WantsJSON(r) {
		http.Redirect(w, r, redirectAfterLogin, http.StatusSeeOther)
		return
	}
	writeJSONSuccess(w, map[string]any{"redirect": redirectAfterLogin})
}

func (h *AuthHandler) failed(w http.ResponseWriter, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.Warn("account locked due to failed attempts", "email", email, "duration", lockDuration.String())
			h.record(LoginLocked)
			writeJSONError(w, http.StatusTooManyRequests,
				"Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
			return
		}
		h.record(LoginFailure)
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
			writeJSONError(w, http.StatusUnauthorized,
				fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	h.record(LoginFailure)
	writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if actor := middleware.GetActor(r); actor != nil {
		userID = actor.ID
	}

	if err := middleware.SignOut(r.Context(), h.sessionManager); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	slog.Info("user logged out", "user_id", userID)

	if !middleware.WantsJSON(r) {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}
	writeJSONSuccess(w, map[string]any{"redirect": RouteLogin})
}

func (h *AuthHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.LoginAttempt(outcome)
	}
}

// clientInfo returns log attributes describing the caller.
func clientInfo(r *http.Request) []any {
	ua := useragent.Parse(r.UserAgent())
	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}
	return []any{
		"ip", middleware.GetClientIP(r),
		"browser", browser,
		"os", ua.OS,
		"device", device,
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	mins := int(d.Round(time.Minute).Minutes())
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
