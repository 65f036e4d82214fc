// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/middleware"
)

// Collection is one admin-editable content family.
type Collection struct {
	// Name is the route segment under /admin and the resource in logs.
	Name    string
	Mutator content.Mutator
	List    func(ctx context.Context) (any, error)
}

// EngineCollection exposes a single-list content engine.
func EngineCollection[T any](e *content.Engine[T]) Collection {
	return Collection{
		Name:    e.Resource(),
		Mutator: e,
		List: func(ctx context.Context) (any, error) {
			return e.List(ctx)
		},
	}
}

// ResearchCollection exposes the research catalogue.
func ResearchCollection(r *content.Research) Collection {
	return Collection{
		Name:    r.Resource(),
		Mutator: r,
		List: func(ctx context.Context) (any, error) {
			return r.Catalogue(ctx)
		},
	}
}

// ContentHandler serves the admin listing and mutation endpoints.
type ContentHandler struct {
	collections []Collection
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(collections ...Collection) *ContentHandler {
	return &ContentHandler{collections: collections}
}

// Routes registers GET /{name}, POST /{name} and POST /{name}/delete for
// every collection on r.
func (h *ContentHandler) Routes(r chi.Router) {
	for _, c := range h.collections {
		base := "/" + c.Name
		r.Get(base, h.list(c))
		r.Post(base, h.upsert(c))
		r.Post(base+routeSuffixDelete, h.delete(c))
	}
}

func (h *ContentHandler) list(c Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.List(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list content", "resource", c.Name, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *ContentHandler) upsert(c Collection) http.HandlerFunc {
	return h.mutate(c, c.Mutator.Upsert)
}

func (h *ContentHandler) delete(c Collection) http.HandlerFunc {
	return h.mutate(c, c.Mutator.Delete)
}

type mutation func(ctx context.Context, actor *content.Actor, form url.Values) (content.Result, error)

func (h *ContentHandler) mutate(c Collection, op mutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Checked before the body is read.
		actor := middleware.GetActor(r)
		if actor == nil {
			writeJSONError(w, http.StatusUnauthorized, content.ErrUnauthorized.Error())
			return
		}

		values, err := submission(w, r)
		if err != nil {
			slog.Debug("unreadable submission", "resource", c.Name, "error", err)
			writeJSONError(w, http.StatusBadRequest, content.ErrInvalidRequest.Error())
			return
		}

		res, err := op(r.Context(), actor, values)
		if err != nil {
			respondError(w, r, c.Name, err)
			return
		}
		respondResult(w, r, res)
	}
}
