// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the persisted shapes of every content collection and
// of the audit log, together with the schema checks applied whenever a
// document is read from or written to disk.
package model

import (
	"fmt"
	"strings"
)

// SchemaError reports a persisted document that does not match its schema.
type SchemaError struct {
	Collection string
	Index      int
	Field      string
	Reason     string
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s %s", e.Collection, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s %s", e.Collection, e.Index, e.Field, e.Reason)
}

// required returns a SchemaError for the first blank value in fields.
// fields alternates name, value.
func required(collection string, index int, fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return &SchemaError{Collection: collection, Index: index, Field: fields[i], Reason: "is required"}
		}
	}
	return nil
}

// validateAll checks every item and identifier uniqueness across the slice.
func validateAll[T any](collection string, items []T, id func(T) string, check func(int, T) error) error {
	seen := make(map[string]int, len(items))
	for i, item := range items {
		if err := check(i, item); err != nil {
			return err
		}
		key := id(item)
		if prev, dup := seen[key]; dup {
			return &SchemaError{
				Collection: collection,
				Index:      i,
				Field:      "identifier",
				Reason:     fmt.Sprintf("%q duplicates entry %d", key, prev),
			}
		}
		seen[key] = i
	}
	return nil
}
