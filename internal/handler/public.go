// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/model"
)

// homeLatest is how many of each listing the site root shows.
const homeLatest = 3

// Sources reads the collections behind the public listings.
type Sources struct {
	Blog     func(ctx context.Context) ([]model.BlogPost, error)
	Jobs     func(ctx context.Context) ([]model.JobRole, error)
	Research func(ctx context.Context) (model.ResearchCatalogue, error)
	Projects func(ctx context.Context) ([]model.Project, error)
}

// PublicHandler serves the cached public listings.
type PublicHandler struct {
	src       Sources
	views     *cache.Views
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(src Sources, views *cache.Views) *PublicHandler {
	return &PublicHandler{
		src:       src,
		views:     views,
		markdown:  goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// PublicPost is a blog post with its blurb rendered to safe HTML.
type PublicPost struct {
	model.BlogPost
	BlurbHTML string `json:"blurb_html"`
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (any, error) {
		posts, err := h.posts(ctx)
		if err != nil {
			return nil, err
		}
		jobs, err := h.src.Jobs(ctx)
		if err != nil {
			return nil, err
		}
		projects, err := h.src.Projects(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"blog":      latest(posts, homeLatest),
			"careers":   latest(jobs, homeLatest),
			"projects":  latest(projects, homeLatest),
			"openRoles": len(jobs),
		}, nil
	})
}

// Blog handles GET /blog.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (any, error) {
		return h.posts(ctx)
	})
}

// Careers handles GET /careers.
func (h *PublicHandler) Careers(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (any, error) {
		return nonNil(h.src.Jobs(ctx))
	})
}

// Research handles GET /research.
func (h *PublicHandler) Research(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (any, error) {
		c, err := h.src.Research(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			model.SectionPublished: orEmpty(c.Published),
			model.SectionPreprints: orEmpty(c.Preprints),
			model.SectionOngoing:   orEmpty(c.Ongoing),
		}, nil
	})
}

// Projects handles GET /projects.
func (h *PublicHandler) Projects(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (any, error) {
		return nonNil(h.src.Projects(ctx))
	})
}

func (h *PublicHandler) serve(w http.ResponseWriter, r *http.Request, build func(context.Context) (any, error)) {
	body, err := h.views.Render(r.Context(), r.URL.Path, func(ctx context.Context) ([]byte, error) {
		v, err := build(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding view: %w", err)
		}
		return append(data, '\n'), nil
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to render public view", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *PublicHandler) posts(ctx context.Context) ([]PublicPost, error) {
	posts, err := h.src.Blog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PublicPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, PublicPost{BlogPost: p, BlurbHTML: h.renderMarkdown(p.Blurb)})
	}
	return out, nil
}

// renderMarkdown converts markdown to sanitized HTML. On a conversion error
// the escaped source text is returned.
func (h *PublicHandler) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return h.sanitizer.Sanitize(src)
	}
	return h.sanitizer.Sanitize(buf.String())
}

func latest[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return orEmpty(items)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func nonNil[T any](items []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return orEmpty(items), nil
}
