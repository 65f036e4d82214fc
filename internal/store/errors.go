// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "fmt"

// PersistenceError wraps any failure to read, decode, validate, lock or write
// a backing document. It is fatal for the operation that hit it.
type PersistenceError struct {
	Op   string // "read", "write", "lock", "validate"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
