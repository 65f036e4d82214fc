// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists content collections as whole JSON documents.
//
// A Document is the only owner of its file. Every read goes to disk (there is
// no in-process cache), every write validates the outgoing value against the
// same schema used on read, and replaces the file atomically by writing a
// temporary file in the same directory and renaming it over the original.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
)

// Validator checks a decoded document against its schema.
type Validator[T any] func(T) error

// Document is a handle on one JSON document holding a value of type T.
type Document[T any] struct {
	path     string
	validate Validator[T]
	lock     *pathLock
}

// NewDocument creates a handle for the document at path.
// validate may be nil when the type carries no extra rules.
func NewDocument[T any](path string, validate Validator[T]) *Document[T] {
	return &Document[T]{
		path:     path,
		validate: validate,
		lock:     lockFor(path),
	}
}

// Path returns the file path of the document.
func (d *Document[T]) Path() string {
	return d.path
}

// Read loads and validates the document. A missing file reads as the zero
// value of T (an empty collection). Decoding or validation failures are
// returned as *PersistenceError.
func (d *Document[T]) Read(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, nil
		}
		return zero, &PersistenceError{Op: "read", Path: d.path, Err: err}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, &PersistenceError{Op: "read", Path: d.path, Err: fmt.Errorf("decoding: %w", err)}
	}
	if err := d.check(v); err != nil {
		return zero, &PersistenceError{Op: "validate", Path: d.path, Err: err}
	}
	return v, nil
}

// Check reads the document and reports whether it is readable and valid.
func (d *Document[T]) Check(ctx context.Context) error {
	_, err := d.Read(ctx)
	return err
}

// Write validates v and replaces the document with it.
func (d *Document[T]) Write(ctx context.Context, v T) error {
	release, err := d.lock.acquire(ctx)
	if err != nil {
		return &PersistenceError{Op: "lock", Path: d.path, Err: err}
	}
	defer release()

	return d.write(v)
}

// Update runs a read-modify-write cycle under the document lock.
// fn receives the current value and returns the next one; if fn returns an
// error nothing is written and that error is returned unchanged.
func (d *Document[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	release, err := d.lock.acquire(ctx)
	if err != nil {
		return &PersistenceError{Op: "lock", Path: d.path, Err: err}
	}
	defer release()

	current, err := d.Read(ctx)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return d.write(next)
}

func (d *Document[T]) check(v T) error {
	if d.validate == nil {
		return nil
	}
	return d.validate(v)
}

func (d *Document[T]) write(v T) error {
	if err := d.check(v); err != nil {
		return &PersistenceError{Op: "validate", Path: d.path, Err: err}
	}

	data, err := encode(v)
	if err != nil {
		return &PersistenceError{Op: "write", Path: d.path, Err: fmt.Errorf("encoding: %w", err)}
	}

	if err := writeAtomic(d.path, data); err != nil {
		return &PersistenceError{Op: "write", Path: d.path, Err: err}
	}
	return nil
}

// encode renders v as two-space indented JSON with a trailing newline.
// A nil slice is written as [] so an emptied collection stays an array.
func encode(v any) ([]byte, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return []byte("[]\n"), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file next to path, syncs it and renames
// it over path, so readers never observe a partially written document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}
