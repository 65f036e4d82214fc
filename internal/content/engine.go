// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content implements the upsert and delete protocol shared by every
// content kind: session gate, schema validation, identity resolution,
// collision guard, locked read-modify-write, audit and view invalidation.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/olegiv/contentdesk/internal/model"
)

// RoleAdmin is the only role allowed to mutate content.
const RoleAdmin = "admin"

// Actor is the authenticated editor performing a mutation.
type Actor struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

// HasRole reports whether the actor holds role.
func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Actor) authorized() bool {
	return a != nil && a.ID != "" && a.HasRole(RoleAdmin)
}

// Collection is locked read-modify-write access to one ordered collection.
// *store.Document[[]T] satisfies it directly.
type Collection[T any] interface {
	Read(ctx context.Context) ([]T, error)
	Update(ctx context.Context, fn func([]T) ([]T, error)) error
}

// Auditor appends audit entries.
type Auditor interface {
	Append(ctx context.Context, resource, action, userID string, before, after any) (model.AuditEntry, error)
}

// Invalidator drops cached views for the given paths.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// Invalidators fans one invalidation out to every non-nil member.
type Invalidators []Invalidator

// Invalidate implements Invalidator.
func (is Invalidators) Invalidate(ctx context.Context, paths ...string) {
	for _, i := range is {
		if i != nil {
			i.Invalidate(ctx, paths...)
		}
	}
}

// Observer receives mutation outcomes, usually for metrics.
type Observer interface {
	MutationSucceeded(resource, action string)
	MutationRejected(resource, reason string)
	AuditFailed(resource string)
}

// Mutator is the caller-facing surface of a content kind.
type Mutator interface {
	Upsert(ctx context.Context, actor *Actor, form url.Values) (Result, error)
	Delete(ctx context.Context, actor *Actor, form url.Values) (Result, error)
}

// Result describes a successful mutation.
type Result struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	ID       string   `json:"id"`
	Redirect string   `json:"redirect"`
	AuditID  string   `json:"-"`
	Stale    []string `json:"-"`
}

// Kind describes one content kind to the engine.
type Kind[T any] struct {
	// Resource is the audit resource name.
	Resource string
	// IDField and OriginalField are the form fields carrying the identifier
	// and, on edit, the identifier before the edit.
	IDField       string
	OriginalField string

	IDRequired string
	Duplicate  string
	NotFound   string

	AdminPath      string
	PublicPath     string
	RedirectPrefix string

	// Decode validates a submission and builds the entity without its
	// identifier.
	Decode func(url.Values) (T, FieldErrors)
	// Source is the text an identifier is derived from when none is given.
	Source func(T) string
	ID     func(T) string
	WithID func(T, string) T
}

// Options carries the collaborators shared by every engine.
type Options struct {
	Audit       Auditor
	Views       Invalidator
	Observer    Observer
	Logger      *slog.Logger
	StrictAudit bool
}

func (o Options) withDefaults() Options {
	if o.Views == nil {
		o.Views = nopInvalidator{}
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Engine runs the mutation protocol for one kind against one collection.
type Engine[T any] struct {
	kind  Kind[T]
	items Collection[T]
	opts  Options
}

// NewEngine creates an engine for kind backed by items.
func NewEngine[T any](kind Kind[T], items Collection[T], opts Options) *Engine[T] {
	return &Engine[T]{kind: kind, items: items, opts: opts.withDefaults()}
}

// Resource returns the audit resource name of the engine's kind.
func (e *Engine[T]) Resource() string {
	return e.kind.Resource
}

// List returns the current collection.
func (e *Engine[T]) List(ctx context.Context) ([]T, error) {
	items, err := e.items.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.kind.Resource, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Upsert creates or replaces one entity from a form submission.
// New entities are prepended; edits keep their position.
func (e *Engine[T]) Upsert(ctx context.Context, actor *Actor, form url.Values) (Result, error) {
	if !actor.authorized() {
		e.reject("unauthorized")
		return Result{}, ErrUnauthorized
	}

	entity, fields := e.kind.Decode(form)
	id := ResolveIdentifier(form.Get(e.kind.IDField), e.kind.Source(entity))
	if id == "" {
		if fields == nil {
			fields = FieldErrors{}
		}
		fields.Add(e.kind.IDField, e.kind.IDRequired)
	}
	if len(fields) > 0 {
		e.reject("validation")
		return Result{}, &ValidationError{Fields: fields}
	}

	entity = e.kind.WithID(entity, id)
	target := ResolveTarget(form.Get(e.kind.OriginalField), id)

	action := model.ActionCreate
	var before any
	err := e.items.Update(ctx, func(items []T) ([]T, error) {
		idx := indexOf(items, target, e.kind.ID)
		if Collides(items, id, idx, e.kind.ID) {
			return nil, &ConflictError{Field: e.kind.IDField, ID: id, Message: e.kind.Duplicate}
		}

		if idx < 0 {
			action, before = model.ActionCreate, nil
			next := make([]T, 0, len(items)+1)
			next = append(next, entity)
			return append(next, items...), nil
		}

		action, before = model.ActionUpdate, items[idx]
		next := make([]T, len(items))
		copy(next, items)
		next[idx] = entity
		return next, nil
	})
	if err != nil {
		return Result{}, e.failed(id, err)
	}

	return e.finish(ctx, actor, e.result(action, id), before, entity)
}

// Delete removes the entity named by the identifier field.
func (e *Engine[T]) Delete(ctx context.Context, actor *Actor, form url.Values) (Result, error) {
	if !actor.authorized() {
		e.reject("unauthorized")
		return Result{}, ErrUnauthorized
	}

	id := strings.TrimSpace(form.Get(e.kind.IDField))
	if id == "" {
		e.reject("invalid")
		return Result{}, ErrInvalidRequest
	}

	var removed T
	err := e.items.Update(ctx, func(items []T) ([]T, error) {
		idx := indexOf(items, id, e.kind.ID)
		if idx < 0 {
			return nil, &NotFoundError{ID: id, Message: e.kind.NotFound}
		}
		removed = items[idx]
		next := make([]T, 0, len(items)-1)
		next = append(next, items[:idx]...)
		return append(next, items[idx+1:]...), nil
	})
	if err != nil {
		return Result{}, e.failed(id, err)
	}

	return e.finish(ctx, actor, e.result(model.ActionDelete, id), removed, nil)
}

func (e *Engine[T]) result(action, id string) Result {
	param := "updated"
	if action == model.ActionDelete {
		param = "deleted"
	}
	return Result{
		Resource: e.kind.Resource,
		Action:   action,
		ID:       id,
		Redirect: e.kind.AdminPath + "?" + param + "=" + url.QueryEscape(e.kind.RedirectPrefix+id),
		Stale:    []string{e.kind.AdminPath, e.kind.PublicPath, "/"},
	}
}

// failed classifies an error returned by the read-modify-write.
func (e *Engine[T]) failed(id string, err error) error {
	var conflict *ConflictError
	var missing *NotFoundError
	switch {
	case errors.As(err, &conflict):
		e.reject("conflict")
		return err
	case errors.As(err, &missing):
		e.reject("not_found")
		return err
	}
	e.reject("persistence")
	e.opts.Logger.Error("failed to persist content",
		"resource", e.kind.Resource, "id", id, "error", err)
	return fmt.Errorf("saving %s %q: %w", e.kind.Resource, id, err)
}

// finish records the audit entry and invalidates stale views once the
// primary write has succeeded. The write is never rolled back, so this runs
// detached from request cancellation.
func (e *Engine[T]) finish(ctx context.Context, actor *Actor, res Result, before, after any) (Result, error) {
	ctx = context.WithoutCancel(ctx)

	entry, auditErr := e.opts.Audit.Append(ctx, res.Resource, res.Action, actor.ID, before, after)
	res.AuditID = entry.ID

	e.opts.Views.Invalidate(ctx, res.Stale...)

	if auditErr != nil {
		e.opts.Observer.AuditFailed(res.Resource)
		e.opts.Logger.ErrorContext(ctx, "failed to record audit entry",
			"resource", res.Resource, "action", res.Action, "id", res.ID, "error", auditErr)
		if e.opts.StrictAudit {
			return res, &AuditError{Result: res, Err: auditErr}
		}
	}

	e.opts.Observer.MutationSucceeded(res.Resource, res.Action)
	e.opts.Logger.InfoContext(ctx, "content saved",
		"resource", res.Resource, "action", res.Action, "id", res.ID, "user_id", actor.ID)
	return res, nil
}

func (e *Engine[T]) reject(reason string) {
	e.opts.Observer.MutationRejected(e.kind.Resource, reason)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, ...string) {}

type nopObserver struct{}

func (nopObserver) MutationSucceeded(string, string) {}
func (nopObserver) MutationRejected(string, string)  {}
func (nopObserver) AuditFailed(string)               {}
