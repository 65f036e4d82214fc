// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "encoding/json"

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEntry is an immutable record of one content mutation.
// Before is absent for creates; After is JSON null for deletes.
type AuditEntry struct {
	ID        string          `json:"id"`
	Resource  string          `json:"resource"`
	Action    string          `json:"action"`
	UserID    string          `json:"userId"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// ValidateAuditLog checks a full audit log.
func ValidateAuditLog(entries []AuditEntry) error {
	return validateAll("audit", entries,
		func(e AuditEntry) string { return e.ID },
		func(i int, e AuditEntry) error {
			if err := required("audit", i, "id", e.ID, "resource", e.Resource, "timestamp", e.Timestamp); err != nil {
				return err
			}
			switch e.Action {
			case ActionCreate, ActionUpdate, ActionDelete:
				return nil
			default:
				return &SchemaError{Collection: "audit", Index: i, Field: "action", Reason: "must be create, update or delete"}
			}
		})
}
