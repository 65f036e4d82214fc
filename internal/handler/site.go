// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/seo"
)

// publicListings are the listing pages published in the sitemap.
var publicListings = []string{"/blog", "/careers", "/research", "/projects"}

// SiteHandler serves crawler files for the public site.
type SiteHandler struct {
	siteURL     string
	disallowAll bool
	posts       func(ctx context.Context) ([]model.BlogPost, error)
}

// NewSiteHandler creates a new SiteHandler. An empty siteURL is derived
// from each request. disallowAll hides the whole site from crawlers.
func NewSiteHandler(siteURL string, disallowAll bool, posts func(ctx context.Context) ([]model.BlogPost, error)) *SiteHandler {
	return &SiteHandler{siteURL: siteURL, disallowAll: disallowAll, posts: posts}
}

// Robots handles GET /robots.txt.
func (h *SiteHandler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// Sitemap handles GET /sitemap.xml.
func (h *SiteHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read blog for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage()
	for _, path := range publicListings {
		b.AddListing(path)
	}
	for _, p := range posts {
		b.AddPost(seo.SitemapPost{Slug: p.Slug, PublishedAt: p.PublishedAt})
	}

	data, err := b.Build()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

func (h *SiteHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
