// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Top-level rejections. Their text is shown to the caller as-is.
var (
	ErrUnauthorized   = errors.New("Unauthorized")
	ErrInvalidRequest = errors.New("Invalid request")
)

// FieldErrors maps a form field name to a human-readable message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// ValidationError reports fields that failed shape or requiredness rules,
// including malformed links and malformed embedded JSON.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + formatFields(e.Fields)
}

// ConflictError reports an identifier already used by a different entity.
type ConflictError struct {
	Field   string
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("identifier %q already in use", e.ID)
}

// NotFoundError reports a delete whose target does not exist.
type NotFoundError struct {
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// AuditError is returned in strict audit mode when the primary write
// succeeded but the audit entry could not be appended.
type AuditError struct {
	Result Result
	Err    error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("%s %s %q saved but not audited: %v", e.Result.Resource, e.Result.Action, e.Result.ID, e.Err)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// FieldErrorsOf extracts the per-field messages carried by err, if any.
func FieldErrorsOf(err error) (FieldErrors, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return FieldErrors{cerr.Field: cerr.Message}, true
	}
	return nil, false
}

func formatFields(fields FieldErrors) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, "; ")
}
