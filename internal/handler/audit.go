// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/olegiv/contentdesk/internal/audit"
	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/model"
)

// maxAuditLimit bounds a single audit page.
const maxAuditLimit = 1000

// AuditReader returns the newest audit entries.
type AuditReader interface {
	Read(ctx context.Context, limit int) []model.AuditEntry
}

// AuditHandler serves the audit log.
type AuditHandler struct {
	log AuditReader
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(log AuditReader) *AuditHandler {
	return &AuditHandler{log: log}
}

// List handles GET /admin/audit?limit=N.
// The limit defaults to 100 and is capped at 1000.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := audit.DefaultReadLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, content.ErrInvalidRequest.Error())
			return
		}
		limit = min(n, maxAuditLimit)
	}

	writeJSON(w, http.StatusOK, h.log.Read(r.Context(), limit))
}
