// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package audit records every content mutation in an append-only JSON log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/store"
)

// DefaultReadLimit is the number of entries Read returns when limit <= 0.
const DefaultReadLimit = 100

// timestampLayout matches ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Recorder appends audit entries to, and reads them from, one log document.
type Recorder struct {
	doc    *store.Document[[]model.AuditEntry]
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewRecorder creates a Recorder backed by the log file at path.
func NewRecorder(path string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		doc:    store.NewDocument(path, model.ValidateAuditLog),
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Path returns the log file path.
func (r *Recorder) Path() string {
	return r.doc.Path()
}

// Check reports whether the log is readable and valid.
func (r *Recorder) Check(ctx context.Context) error {
	return r.doc.Check(ctx)
}

// Append prepends a new entry to the log. before and after are snapshots of
// the entity; a nil before is omitted (create), a nil after is stored as null
// (delete).
func (r *Recorder) Append(ctx context.Context, resource, action, userID string, before, after any) (model.AuditEntry, error) {
	entry := model.AuditEntry{
		ID:        r.newID(),
		Resource:  resource,
		Action:    action,
		UserID:    userID,
		Timestamp: r.now().UTC().Format(timestampLayout),
	}

	var err error
	if before != nil {
		if entry.Before, err = json.Marshal(before); err != nil {
			return model.AuditEntry{}, fmt.Errorf("encoding before snapshot: %w", err)
		}
	}
	if entry.After, err = json.Marshal(after); err != nil {
		return model.AuditEntry{}, fmt.Errorf("encoding after snapshot: %w", err)
	}

	err = r.doc.Update(ctx, func(entries []model.AuditEntry) ([]model.AuditEntry, error) {
		next := make([]model.AuditEntry, 0, len(entries)+1)
		next = append(next, entry)
		return append(next, entries...), nil
	})
	if err != nil {
		return model.AuditEntry{}, fmt.Errorf("appending audit entry: %w", err)
	}

	return entry, nil
}

// Read returns up to limit of the most recent entries, newest first.
// An unreadable log yields an empty slice; the failure is logged.
func (r *Recorder) Read(ctx context.Context, limit int) []model.AuditEntry {
	if limit <= 0 {
		limit = DefaultReadLimit
	}

	entries, err := r.doc.Read(ctx)
	if err != nil {
		r.logger.Warn("audit log unreadable", "path", r.doc.Path(), "error", err)
		return []model.AuditEntry{}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	return entries
}
