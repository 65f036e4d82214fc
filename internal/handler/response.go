// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/middleware"
)

// respondResult reports a successful mutation. HTML form posts are sent on
// to the result's redirect target; JSON clients get the result body.
func respondResult(w http.ResponseWriter, r *http.Request, res content.Result) {
	if !middleware.WantsJSON(r) {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	writeJSONSuccess(w, map[string]any{
		"action":   res.Action,
		"id":       res.ID,
		"redirect": res.Redirect,
	})
}

// respondError translates a mutation error into an HTTP response.
func respondError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	if fields, ok := content.FieldErrorsOf(err); ok {
		writeFieldErrors(w, fields)
		return
	}

	var notFound *content.NotFoundError
	var auditErr *content.AuditError
	switch {
	case errors.Is(err, content.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, content.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		writeJSONError(w, http.StatusNotFound, notFound.Message)
	case errors.As(err, &auditErr):
		// The change is on disk; say so rather than inviting a retry.
		slog.ErrorContext(r.Context(), "mutation saved without audit entry",
			"resource", resource, "id", auditErr.Result.ID, "path", middleware.GetRequestPath(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":  false,
			"error":    "Saved, but the audit log could not be updated",
			"action":   auditErr.Result.Action,
			"id":       auditErr.Result.ID,
			"redirect": auditErr.Result.Redirect,
		})
	default:
		slog.ErrorContext(r.Context(), "mutation failed",
			"resource", resource, "path", middleware.GetRequestPath(r.Context()), "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
